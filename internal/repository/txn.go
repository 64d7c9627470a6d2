package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrTxnExhausted 事务冲突重试次数用尽
var ErrTxnExhausted = errors.New("事务重试次数已用尽")

// RunInTxn 在事务内执行 fn，遇到可重试冲突时最多重试 attempts 次。
// 业务错误（非冲突）直接透传，不重试。
func RunInTxn(db *gorm.DB, attempts int, fn func(tx *gorm.DB) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		err = db.Transaction(fn)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
	}

	return errors.Join(ErrTxnExhausted, err)
}

// isRetryable 判断错误是否为写冲突一类的瞬态错误
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// MySQL: 死锁/锁等待超时；SQLite: 库级锁。
	// 唯一键冲突视作与自己赛跑的重复请求，重读后重试即可收敛。
	return strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "lock wait timeout") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "unique constraint")
}
