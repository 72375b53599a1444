package logger

import "log/slog"

// Canonical log field names.
const (
	KeyStep     = "step"
	KeyPath     = "path"
	KeyDir      = "dir"
	KeyCommand  = "command"
	KeyExitCode = "exit_code"
	KeyOutcome  = "outcome"
	KeyBasePath = "base_path"
	KeyRepo     = "repository"
	KeyError    = "error"
)

func Step(name string) slog.Attr { return slog.String(KeyStep, name) }
func Path(p string) slog.Attr { return slog.String(KeyPath, p) }
func Dir(d string) slog.Attr { return slog.String(KeyDir, d) }
func Command(c string) slog.Attr { return slog.String(KeyCommand, c) }
func ExitCode(code int) slog.Attr { return slog.Int(KeyExitCode, code) }
func Outcome(o string) slog.Attr { return slog.String(KeyOutcome, o) }
func BasePath(p string) slog.Attr { return slog.String(KeyBasePath, p) }
func Repository(url string) slog.Attr { return slog.String(KeyRepo, url) }

func Err(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
