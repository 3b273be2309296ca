package editor

import (
	"slices"
	"sync"

	"github.com/brettbedarf/webedit"
	"github.com/brettbedarf/webedit/internal/util"
	"github.com/puzpuzpuz/xsync/v4"
)

type buffer struct {
	mu        sync.Mutex // protects the fields below
	name      string
	content   string
	language  string
	listeners []func(string)
}

// Buffers is an in-memory [webedit.BufferEditor]. Edits are made with
// [Buffers.Edit], which plays the part of a user typing.
type Buffers struct {
	open *xsync.Map[string, *buffer]
}

func NewBuffers() *Buffers {
	return &Buffers{open: xsync.NewMap[string, *buffer]()}
}

// OpenBuffer creates the buffer or, if already open, replaces its text and
// keeps registered listeners.
func (b *Buffers) OpenBuffer(id, name, content, languageHint string) {
	buf, _ := b.open.LoadOrStore(id, &buffer{})
	buf.mu.Lock()
	defer buf.mu.Unlock()
	buf.name, buf.content, buf.language = name, content, languageHint
}

func (b *Buffers) BufferValue(id string) (string, bool) {
	buf, ok := b.open.Load(id)
	if !ok {
		return "", false
	}
	buf.mu.Lock()
	defer buf.mu.Unlock()
	return buf.content, true
}

func (b *Buffers) CloseBuffer(id string) {
	b.open.Delete(id)
}

// OnContentChanged is ignored for buffers that are not open.
func (b *Buffers) OnContentChanged(id string, fn func(content string)) {
	logger := util.GetLogger("Buffers.OnContentChanged")

	buf, ok := b.open.Load(id)
	if !ok {
		logger.Debug().Str("id", id).Msg("No open buffer")
		return
	}
	buf.mu.Lock()
	defer buf.mu.Unlock()
	buf.listeners = append(buf.listeners, fn)
}

// Edit replaces the buffer text and notifies listeners. It reports false
// when no buffer is open for id.
func (b *Buffers) Edit(id, content string) bool {
	buf, ok := b.open.Load(id)
	if !ok {
		return false
	}
	buf.mu.Lock()
	buf.content = content
	listeners := slices.Clone(buf.listeners)
	buf.mu.Unlock()

	// listeners run unlocked so they may read the buffer back
	for _, fn := range listeners {
		fn(content)
	}
	return true
}

// Language returns the hint the buffer was opened with.
func (b *Buffers) Language(id string) (string, bool) {
	buf, ok := b.open.Load(id)
	if !ok {
		return "", false
	}
	buf.mu.Lock()
	defer buf.mu.Unlock()
	return buf.language, true
}

// Len returns the number of open buffers.
func (b *Buffers) Len() int {
	return b.open.Size()
}

var _ webedit.BufferEditor = (*Buffers)(nil)
