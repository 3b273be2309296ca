package mount

import (
	"context"
	"os"
	"syscall"
	"time"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/brettbedarf/webedit/internal/util"
)

const (
	dirMode  = syscall.S_IFDIR | 0o555 // r-xr-xr-x
	fileMode = syscall.S_IFREG | 0o444 // r--r--r--
)

// Node is the FUSE view of one mount path. It holds no entity data itself
// and resolves its path against the current [Tree] on every request, so a
// node whose entity is gone answers ENOENT.
type Node struct {
	fs.Inode
	mnt  *Mount
	path string
}

var (
	_ fs.InodeEmbedder = (*Node)(nil)
	_ fs.NodeGetattrer = (*Node)(nil)
	_ fs.NodeLookuper  = (*Node)(nil)
	_ fs.NodeReaddirer = (*Node)(nil)
	_ fs.NodeOpener    = (*Node)(nil)
	_ fs.NodeReader    = (*Node)(nil)
)

func (n *Node) entry() (*Entry, bool) {
	return n.mnt.Tree().Lookup(n.path)
}

// Getattr returns attributes from the current layout.
func (n *Node) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	e, ok := n.entry()
	if !ok {
		return syscall.ENOENT
	}
	fillAttr(e, &out.Attr)
	out.SetTimeout(time.Second)
	return 0
}

func (n *Node) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	logger := util.GetLogger("Mount.Lookup")

	dir, ok := n.entry()
	if !ok || !dir.Dir {
		return nil, syscall.ENOENT
	}
	child, ok := dir.Child(name)
	if !ok {
		logger.Trace().Str("dir", dir.Path).Str("name", name).Msg("No such entry")
		return nil, syscall.ENOENT
	}
	fillAttr(child, &out.Attr)
	out.SetEntryTimeout(time.Second)
	out.SetAttrTimeout(time.Second)

	node := &Node{mnt: n.mnt, path: child.Path}
	return n.NewInode(ctx, node, fs.StableAttr{Mode: out.Mode & syscall.S_IFMT}), 0
}

func (n *Node) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	e, ok := n.entry()
	if !ok {
		return nil, syscall.ENOENT
	}
	if !e.Dir {
		return nil, syscall.ENOTDIR
	}
	return fs.NewListDirStream(dirEntries(e)), 0
}

// Open allows read-only access to files.
func (n *Node) Open(ctx context.Context, flags uint32) (fs.FileHandle, uint32, syscall.Errno) {
	e, ok := n.entry()
	if !ok {
		return nil, 0, syscall.ENOENT
	}
	if e.Dir {
		return nil, 0, syscall.EISDIR
	}
	if flags&(syscall.O_WRONLY|syscall.O_RDWR|syscall.O_TRUNC|syscall.O_APPEND) != 0 {
		return nil, 0, syscall.EROFS
	}
	return nil, fuse.FOPEN_DIRECT_IO, 0
}

// Read serves content from the current layout, so a read after an edit sees
// the new text.
func (n *Node) Read(ctx context.Context, fh fs.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	e, ok := n.entry()
	if !ok {
		return nil, syscall.ENOENT
	}
	data := readAt(e.Content, dest, off)
	n.mnt.recordRead(len(data))
	return fuse.ReadResultData(data), 0
}

func readAt(content, dest []byte, off int64) []byte {
	if off < 0 || off >= int64(len(content)) {
		return nil
	}
	end := min(off+int64(len(dest)), int64(len(content)))
	return content[off:end]
}

func dirEntries(e *Entry) []fuse.DirEntry {
	out := make([]fuse.DirEntry, 0, len(e.Children))
	for _, c := range e.Children {
		mode := uint32(fileMode)
		if c.Dir {
			mode = dirMode
		}
		out = append(out, fuse.DirEntry{Name: c.Name, Mode: mode & syscall.S_IFMT})
	}
	return out
}

// fillAttr sets the read-only attributes of e, owned by the mounting user.
func fillAttr(e *Entry, attr *fuse.Attr) {
	attr.Mode = fileMode
	attr.Nlink = 1
	if e.Dir {
		attr.Mode = dirMode
		attr.Nlink = 2
	}
	attr.Size = e.Size()
	attr.Blksize = 4096 // preferred size for fs ops
	attr.Blocks = (attr.Size + 511) / 512
	attr.Owner = fuse.Owner{
		Uid: uint32(os.Getuid()),
		Gid: uint32(os.Getgid()),
	}
	sec, nsec := uint64(e.ModTime.Unix()), uint32(e.ModTime.Nanosecond())
	attr.Atime, attr.Mtime, attr.Ctime = sec, sec, sec
	attr.Atimensec, attr.Mtimensec, attr.Ctimensec = nsec, nsec, nsec
}
