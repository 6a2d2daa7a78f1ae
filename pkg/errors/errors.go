package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
// 打卡记录的 version 条件更新失败时由 Repository 层返回，
// Handler 层映射为 409，区别于业务规则拒绝与基础设施故障。
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")
