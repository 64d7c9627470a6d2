package service

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// 游标格式: base64url("unixnano|id")，锚定最后一条根评论的位置。
// 按位置翻页在并发插入下保持稳定，不会像偏移分页那样漂移。

func encodeCursor(t time.Time, id int64) string {
	raw := fmt.Sprintf("%d|%d", t.UnixNano(), id)
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(cursor string) (time.Time, int64, error) {
	raw, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, 0, err
	}

	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, 0, fmt.Errorf("malformed cursor")
	}

	nanos, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}, 0, err
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return time.Time{}, 0, err
	}

	return time.Unix(0, nanos).UTC(), id, nil
}
