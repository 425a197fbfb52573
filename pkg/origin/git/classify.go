package git

import (
	stderrors "errors"
	"strings"

	"github.com/arthur-debert/mtcollect/pkg/errors"
)

var (
	networkMarkers = []string{
		"could not resolve host",
		"unable to access",
		"connection refused",
		"connection timed out",
		"operation timed out",
		"network is unreachable",
		"could not read from remote repository",
		"authentication failed",
		"repository not found",
		"does not appear to be a git repository",
		"early eof",
		"the remote end hung up",
	}
	refMarkers = []string{
		"couldn't find remote ref",
		"not found in upstream",
		"did not match any file(s) known to git",
		"invalid reference",
	}
	dirtyMarkers = []string{
		"would be overwritten",
		"not possible to fast-forward",
		"please commit your changes or stash them",
	}
)

// classify maps a failed git invocation to an origin error code. remote
// tells whether the command talked to a remote, which decides the fallback.
func classify(err error, remote bool, message string) error {
	if err == nil {
		return nil
	}

	stderr := ""
	var cmdErr *CommandError
	if stderrors.As(err, &cmdErr) {
		stderr = strings.ToLower(cmdErr.Stderr)
	}

	code := errors.ErrFilesystem
	if remote {
		code = errors.ErrOriginNetwork
	}
	switch {
	case containsAny(stderr, refMarkers):
		code = errors.ErrOriginRefNotFound
	case containsAny(stderr, dirtyMarkers):
		code = errors.ErrOriginDirty
	case containsAny(stderr, networkMarkers):
		code = errors.ErrOriginNetwork
	}

	return errors.Wrap(err, code, message)
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
