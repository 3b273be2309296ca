package shell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/brettbedarf/webedit"
	"github.com/brettbedarf/webedit/internal/util"
	"github.com/brettbedarf/webedit/workspace"
)

// ApplyResult counts what a batch of requests created.
type ApplyResult struct {
	Folders int
	Files   int
	Failed  int
}

// OpenExternal fetches src and adds the result as a new file under parent,
// then opens it.
func (s *Shell) OpenExternal(ctx context.Context, src webedit.ContentSource, parent *workspace.Folder) (*workspace.File, error) {
	logger := util.GetLogger("Shell.OpenExternal")

	up, err := src.Fetch(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch source")
		return nil, err
	}
	return s.Upload(*up, parent)
}

// Apply runs create requests in order. A failing request is logged and
// skipped; the joined errors are returned with the counts.
func (s *Shell) Apply(ctx context.Context, reqs []webedit.NodeRequestor) (ApplyResult, error) {
	logger := util.GetLogger("Shell.Apply")

	var res ApplyResult
	var errs []error
	for _, req := range reqs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		var err error
		switch r := req.(type) {
		case *webedit.DirCreateRequest:
			var n int
			_, n, err = s.EnsureFolderPath(r.Path)
			res.Folders += n
		case *webedit.FileCreateRequest:
			var n int
			_, n, err = s.addFileNode(ctx, r)
			res.Folders += n
			if err == nil {
				res.Files++
			}
		default:
			err = fmt.Errorf("unsupported request type %q", req.GetType())
		}
		if err != nil {
			res.Failed++
			logger.Debug().Err(err).Str("path", req.GetPath()).Msg("Failed to apply request")
			errs = append(errs, fmt.Errorf("%s: %w", req.GetPath(), err))
		}
	}
	logger.Info().Int("folders", res.Folders).Int("files", res.Files).Int("failed", res.Failed).Msg("Applied requests")
	return res, errors.Join(errs...)
}

// addFileNode creates the file named by req.Path along with any missing
// folders above it. It returns the file and the number of folders created.
func (s *Shell) addFileNode(ctx context.Context, req *webedit.FileCreateRequest) (*workspace.File, int, error) {
	dir, name := "", req.Path
	if i := strings.LastIndex(req.Path, "/"); i >= 0 {
		dir, name = req.Path[:i], req.Path[i+1:]
	}
	if !plainName(name) {
		return nil, 0, fmt.Errorf("file %q: %w", name, ErrInvalidName)
	}

	var parent *workspace.Folder
	created := 0
	if dir != "" {
		var err error
		if parent, created, err = s.EnsureFolderPath(dir); err != nil {
			return nil, created, err
		}
	}

	if s.store.FileNameExists(name, parent) {
		if !req.Unique {
			return nil, created, fmt.Errorf("file %q: %w", req.Path, ErrNameTaken)
		}
		name = s.store.GenerateUniqueFileName(name, parent)
	}

	content := req.Content
	if req.Source != nil {
		up, err := req.Source.Fetch(ctx)
		if err != nil {
			return nil, created, err
		}
		content = up.Content
	}
	return s.store.CreateFile(name, content, parent), created, nil
}
