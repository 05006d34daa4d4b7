package errors

import "errors"

// ErrLockNotAcquired 分布式锁已被其他实例持有
var ErrLockNotAcquired = errors.New("操作正在进行中，请稍后重试")

// ErrRateLimited 请求频率超限
var ErrRateLimited = errors.New("请求过于频繁，请稍后重试")
