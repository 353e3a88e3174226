package system

import "golang.org/x/sys/unix"

// arm64 and riscv64 have no dup2 syscall.
func dup2(oldfd, newfd int) error { return unix.Dup3(oldfd, newfd, 0) }
