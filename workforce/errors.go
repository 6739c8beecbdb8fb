package workforce

import "github.com/BaSui01/workforce/types"

func errDuplicateTask(key string) error {
	return types.NewError(types.ErrDuplicateTask, "task key already tracked").WithTask(key)
}
