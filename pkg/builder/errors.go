package builder

import "errors"

var (
	ErrEmptySecret         = errors.New("secret value is empty")
	ErrUnsafeOutput        = errors.New("refusing to use output directory")
	ErrFileSystemOperation = errors.New("file system operation failed")
	ErrEncoding            = errors.New("invalid text encoding")
	ErrPlaceholderNotFound = errors.New("placeholder not found")
	ErrCopy                = errors.New("copy failed")
)
