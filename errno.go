package litefs

import "syscall"

// ToErrno maps an error raised by the core onto the negative POSIX errno the
// external FUSE operation-table contract expects (§6/§7). nameLookup
// distinguishes the two MessageVerificationError outcomes: ENOENT when the
// failure happened while resolving a path component, EIO when it happened
// reading file content.
func ToErrno(err error, nameLookup bool) int {
	if err == nil {
		return 0
	}

	if p, ok := AsPosixError(err); ok {
		if p.Errno != 0 {
			return -p.Errno
		}
		return -int(syscall.EIO)
	}

	switch {
	case IsInvalidFormat(err):
		if nameLookup {
			return -int(syscall.ENOENT)
		}
		return -int(syscall.EINVAL)
	case IsMessageVerification(err):
		if nameLookup {
			return -int(syscall.ENOENT)
		}
		return -int(syscall.EIO)
	case IsInvalidArgument(err):
		return -int(syscall.EINVAL)
	case IsStreamTooLong(err):
		return -int(syscall.EFBIG)
	case IsCorruptedStream(err):
		return -int(syscall.EIO)
	case err == ErrUnsupportedVersion, err == ErrInvalidMasterKey:
		return -int(syscall.EINVAL)
	case err == ErrClosed:
		return -int(syscall.EBADF)
	default:
		return -int(syscall.EIO)
	}
}
