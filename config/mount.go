package config

const (
	DefaultFsName = "webedit"
	DefaultName   = "webedit"
)

// MountOptions holds high-level settings for mounting a read-only view of
// the workspace. No go-fuse types are exposed here.
type MountOptions struct {
	Debug  bool   // fuse debug logs
	FsName string // mount's FsName
	Name   string // mount's Name
}
