package env

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

var (
	ErrProjectDir = errors.New("project directory not usable")
	ErrEnvDir     = errors.New("environment not activatable")
	ErrNotFound   = errors.New("command not found in context path")
)

// Context is a scoped execution context: an absolute working directory plus
// the environment a checker process runs with. It is built once per
// invocation and never touches process-wide state (no os.Chdir, no
// os.Setenv), so repeated or concurrent runs cannot interfere with each
// other.
type Context struct {
	// WorkDir is the absolute project directory checkers run in.
	WorkDir string

	// BinDir is the environment's executable directory, prepended to PATH.
	BinDir string

	environ []string
	path    []string
}

// Prepare resolves the project directory and activates the environment at
// envDir. Relative envDir is taken under the project directory, matching
// the usual in-tree `.venv` layout. Activation means building the child
// environment: <env>/bin first on PATH, VIRTUAL_ENV set, PYTHONHOME
// dropped. Both preconditions fail early with a wrapped sentinel so the
// caller can refuse to run any checker.
func Prepare(projectDir, envDir string) (*Context, error) {
	workDir, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProjectDir, err)
	}
	info, err := os.Stat(workDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProjectDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrProjectDir, workDir)
	}

	envRoot := envDir
	if !filepath.IsAbs(envRoot) {
		envRoot = filepath.Join(workDir, envRoot)
	}
	binDir := filepath.Join(envRoot, binDirName())
	info, err = os.Stat(binDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnvDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrEnvDir, binDir)
	}

	ctx := &Context{
		WorkDir: workDir,
		BinDir:  binDir,
	}
	ctx.environ = activationEnv(os.Environ(), envRoot, binDir)
	for _, kv := range ctx.environ {
		if rest, ok := strings.CutPrefix(kv, "PATH="); ok {
			ctx.path = filepath.SplitList(rest)
			break
		}
	}

	return ctx, nil
}

// Environ returns the activation environment for a checker process.
func (c *Context) Environ() []string {
	out := make([]string, len(c.environ))
	copy(out, c.environ)
	return out
}

// LookPath resolves name against the context's PATH rather than the
// process's, so resolution sees the activated environment first.
func (c *Context) LookPath(name string) (string, error) {
	if strings.ContainsRune(name, os.PathSeparator) {
		if isExecutable(name) {
			return filepath.Clean(name), nil
		}
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	for _, dir := range c.path {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// activationEnv reproduces what sourcing bin/activate does to a shell:
// the environment's bin directory wins PATH resolution, VIRTUAL_ENV marks
// the active environment, and any inherited PYTHONHOME is removed so the
// interpreter inside the environment resolves its own stdlib.
func activationEnv(parent []string, envRoot, binDir string) []string {
	out := make([]string, 0, len(parent)+2)
	sawPath := false
	for _, kv := range parent {
		switch {
		case strings.HasPrefix(kv, "PATH="):
			out = append(out, "PATH="+binDir+string(os.PathListSeparator)+kv[len("PATH="):])
			sawPath = true
		case strings.HasPrefix(kv, "PYTHONHOME="):
			// skip
		case strings.HasPrefix(kv, "VIRTUAL_ENV="):
			// replaced below
		default:
			out = append(out, kv)
		}
	}
	if !sawPath {
		out = append(out, "PATH="+binDir)
	}
	out = append(out, "VIRTUAL_ENV="+envRoot)
	return out
}

func binDirName() string {
	if runtime.GOOS == "windows" {
		return "Scripts"
	}
	return "bin"
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode()&0o111 != 0
}
