package gitrepo

import "fmt"

// RepositoryError reports that a path is not a readable Git repository.
// It is fatal: no partial scan is produced when the repository cannot be
// opened.
type RepositoryError struct {
	Path string
	Err  error
}

func (e *RepositoryError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid git repository: %s", e.Path)
	}
	return fmt.Sprintf("invalid git repository: %s: %v", e.Path, e.Err)
}

// Unwrap enables errors.Is/As to traverse the underlying cause.
func (e *RepositoryError) Unwrap() error { return e.Err }
