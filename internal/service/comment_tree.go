package service

import (
	"sort"

	"github.com/yzh77/plaza_go_server/internal/model"
	"github.com/yzh77/plaza_go_server/internal/repository"
)

// treeIndex 已取回评论的内存索引，父链回溯时 O(1) 查父
type treeIndex map[int64]*model.Comment

func newTreeIndex(groups ...[]*model.Comment) treeIndex {
	idx := make(treeIndex)
	for _, group := range groups {
		for _, c := range group {
			idx[c.ID] = c
		}
	}
	return idx
}

// resolveRootID 沿父指针向上回溯到根评论。
// 父节点不在索引里或检测到环时返回 false（挂起节点丢弃，不报错）。
// 客户端提供的 depth 不可信，回溯只认 parent_id。
func resolveRootID(idx treeIndex, c *model.Comment) (int64, bool) {
	visited := map[int64]bool{c.ID: true}

	cur := c
	for cur.ParentID != nil {
		parent, ok := idx[*cur.ParentID]
		if !ok {
			return 0, false
		}
		if visited[parent.ID] {
			// 脏数据成环，放弃回溯
			return 0, false
		}
		visited[parent.ID] = true
		cur = parent
	}

	return cur.ID, true
}

// threadResolver 把平铺存储的评论还原为 根->回复 的分组
type threadResolver struct {
	commentRepo   *repository.CommentRepository
	idFilterLimit int
}

// collectBounded 两级模式：只取根评论的直接回复。
// 回复归桶只做一跳回溯，父不在根集合内的丢弃。
func (r *threadResolver) collectBounded(roots []*model.Comment) (map[int64][]*model.Comment, error) {
	rootSet := make(map[int64]bool, len(roots))
	rootIDs := make([]int64, len(roots))
	for i, root := range roots {
		rootSet[root.ID] = true
		rootIDs[i] = root.ID
	}

	children, err := r.fetchChildrenBatched(rootIDs)
	if err != nil {
		return nil, err
	}

	buckets := make(map[int64][]*model.Comment)
	for _, c := range children {
		if c.ParentID == nil || !rootSet[*c.ParentID] {
			continue
		}
		buckets[*c.ParentID] = append(buckets[*c.ParentID], c)
	}

	sortBuckets(buckets)
	return buckets, nil
}

// collectUnbounded 任意层级模式：从根集合出发按批次做广度扩展，
// 反复查询 "parent_id IN {已知 ID}" 直到没有新节点，再统一回溯归桶。
func (r *threadResolver) collectUnbounded(roots []*model.Comment) (map[int64][]*model.Comment, error) {
	idx := newTreeIndex(roots)
	rootSet := make(map[int64]bool, len(roots))
	frontier := make([]int64, len(roots))
	for i, root := range roots {
		rootSet[root.ID] = true
		frontier[i] = root.ID
	}

	seen := make(map[int64]bool, len(roots))
	for id := range rootSet {
		seen[id] = true
	}

	var descendants []*model.Comment
	for len(frontier) > 0 {
		children, err := r.fetchChildrenBatched(frontier)
		if err != nil {
			return nil, err
		}

		var next []int64
		for _, c := range children {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			idx[c.ID] = c
			descendants = append(descendants, c)
			next = append(next, c.ID)
		}
		frontier = next
	}

	buckets := make(map[int64][]*model.Comment)
	for _, c := range descendants {
		rootID, ok := resolveRootID(idx, c)
		if !ok || !rootSet[rootID] {
			continue
		}
		buckets[rootID] = append(buckets[rootID], c)
	}

	sortBuckets(buckets)
	return buckets, nil
}

// fetchChildrenBatched 按 ID 批次上限拆分 IN 查询
func (r *threadResolver) fetchChildrenBatched(parentIDs []int64) ([]*model.Comment, error) {
	limit := r.idFilterLimit
	if limit < 1 {
		limit = len(parentIDs)
	}

	var all []*model.Comment
	for start := 0; start < len(parentIDs); start += limit {
		end := start + limit
		if end > len(parentIDs) {
			end = len(parentIDs)
		}

		children, err := r.commentRepo.GetChildrenOfIDs(parentIDs[start:end])
		if err != nil {
			return nil, err
		}
		all = append(all, children...)
	}

	return all, nil
}

// sortBuckets 桶内回复按创建时间升序，同刻按 ID
func sortBuckets(buckets map[int64][]*model.Comment) {
	for _, replies := range buckets {
		sort.SliceStable(replies, func(i, j int) bool {
			if replies[i].CreatedAt.Equal(replies[j].CreatedAt) {
				return replies[i].ID < replies[j].ID
			}
			return replies[i].CreatedAt.Before(replies[j].CreatedAt)
		})
	}
}
