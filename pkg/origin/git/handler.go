package git

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/mtcollect/pkg/errors"
	"github.com/arthur-debert/mtcollect/pkg/logging"
	"github.com/arthur-debert/mtcollect/pkg/types"
	"github.com/rs/zerolog"
)

// DefaultRemote is the remote name cloned repositories track.
const DefaultRemote = "origin"

// Handler is the origin.Handler for git repositories.
type Handler struct {
	runner Runner
	remote string
	logger zerolog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithRunner replaces the git runner.
func WithRunner(r Runner) Option {
	return func(h *Handler) {
		h.runner = r
	}
}

// WithRemote sets the remote name expected in existing clones.
func WithRemote(remote string) Option {
	return func(h *Handler) {
		if remote != "" {
			h.remote = remote
		}
	}
}

// New creates a git handler using the git binary on PATH unless a runner
// is supplied.
func New(opts ...Option) *Handler {
	h := &Handler{
		runner: NewExecRunner("git"),
		remote: DefaultRemote,
		logger: logging.GetLogger("origin.git"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Kind implements origin.Handler.
func (h *Handler) Kind() types.OriginKind {
	return types.OriginGit
}

// Materialize clones ref into dest, including submodules.
func (h *Handler) Materialize(ctx context.Context, ref types.PackageRef, dest string) error {
	args := []string{"clone", "--recurse-submodules"}
	if ref.Branch != "" {
		args = append(args, "--branch", ref.Branch)
	}
	args = append(args, ref.URL, dest)

	h.logger.Info().Str("url", ref.URL).Str("dest", dest).Msg("Cloning repository")
	if _, err := h.runner.Run(ctx, "", args...); err != nil {
		return withRef(classify(err, true, "clone failed"), ref, dest)
	}
	return nil
}

// Refresh fast-forwards the clone at dest, switching to the requested
// branch first when needed. Local modifications of tracked files abort the
// refresh before anything is fetched.
func (h *Handler) Refresh(ctx context.Context, ref types.PackageRef, dest string) error {
	if err := h.verifyRepository(ctx, dest); err != nil {
		return withRef(err, ref, dest)
	}

	status, err := h.git(ctx, dest, "status", "--porcelain", "--untracked-files=no")
	if err != nil {
		return withRef(classify(err, false, "status failed"), ref, dest)
	}
	if status != "" {
		return withRef(errors.Newf(errors.ErrOriginDirty, "%s has modified tracked files", dest), ref, dest)
	}

	if _, err := h.git(ctx, dest, "fetch", h.remote, "--prune"); err != nil {
		return withRef(classify(err, true, "fetch failed"), ref, dest)
	}

	current, _ := h.git(ctx, dest, "symbolic-ref", "--short", "-q", "HEAD")
	branch := current
	if ref.Branch != "" && ref.Branch != current {
		if err := h.switchBranch(ctx, dest, ref.Branch); err != nil {
			return withRef(err, ref, dest)
		}
		branch = ref.Branch
	}
	if branch == "" {
		branch = h.remoteDefaultBranch(ctx, dest)
	}
	if branch == "" {
		return withRef(errors.Newf(errors.ErrOriginInvalidRepo, "cannot determine which branch to pull in %s", dest), ref, dest)
	}

	h.logger.Info().Str("dest", dest).Str("branch", branch).Msg("Pulling repository")
	if _, err := h.git(ctx, dest, "pull", "--ff-only", h.remote, branch); err != nil {
		return withRef(classify(err, true, "pull failed"), ref, dest)
	}

	if _, err := h.git(ctx, dest, "submodule", "sync", "--recursive"); err != nil {
		return withRef(classify(err, false, "submodule sync failed"), ref, dest)
	}
	if _, err := h.git(ctx, dest, "submodule", "update", "--init", "--recursive"); err != nil {
		return withRef(classify(err, true, "submodule update failed"), ref, dest)
	}
	return nil
}

// verifyRepository checks dest is the top of a work tree with the
// expected remote.
func (h *Handler) verifyRepository(ctx context.Context, dest string) error {
	top, err := h.git(ctx, dest, "rev-parse", "--show-toplevel")
	if err != nil {
		return errors.Wrapf(err, errors.ErrOriginInvalidRepo, "%s is not a git repository", dest)
	}
	if !samePath(top, dest) {
		return errors.Newf(errors.ErrOriginInvalidRepo, "%s is not the root of a git repository (root is %s)", dest, top)
	}
	if _, err := h.git(ctx, dest, "remote", "get-url", h.remote); err != nil {
		return errors.Wrapf(err, errors.ErrOriginInvalidRepo, "remote %s does not exist", h.remote)
	}
	return nil
}

func (h *Handler) switchBranch(ctx context.Context, dest, branch string) error {
	remoteRef := "refs/remotes/" + h.remote + "/" + branch
	if _, err := h.git(ctx, dest, "show-ref", "--verify", "--quiet", remoteRef); err != nil {
		return errors.Newf(errors.ErrOriginRefNotFound, "branch %s does not exist on %s", branch, h.remote).
			WithDetail("branch", branch)
	}
	h.logger.Info().Str("dest", dest).Str("branch", branch).Msg("Switching branch")
	if _, err := h.git(ctx, dest, "checkout", branch); err != nil {
		return classify(err, false, "checkout failed")
	}
	return nil
}

// remoteDefaultBranch returns the branch the remote HEAD points to, or "".
func (h *Handler) remoteDefaultBranch(ctx context.Context, dest string) string {
	out, err := h.git(ctx, dest, "symbolic-ref", "--short", "refs/remotes/"+h.remote+"/HEAD")
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(out, h.remote+"/")
}

func (h *Handler) git(ctx context.Context, dir string, args ...string) (string, error) {
	return h.runner.Run(ctx, dir, args...)
}

func withRef(err error, ref types.PackageRef, dest string) error {
	var collErr *errors.CollectionError
	if e, ok := err.(*errors.CollectionError); ok {
		collErr = e
	} else {
		collErr = errors.Wrap(err, errors.GetErrorCode(err), "git origin failed")
	}
	return collErr.WithDetail("url", ref.URL).WithDetail("dest", dest)
}

func samePath(a, b string) bool {
	return canonical(a) == canonical(b)
}

func canonical(p string) string {
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		p = resolved
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}
