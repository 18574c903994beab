package testsupport

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/amonks/timeclock/devserver"
	"github.com/rogpeppe/go-internal/testscript"
	"golang.org/x/crypto/bcrypt"
)

var (
	buildOnce sync.Once
	tcPath    string
	buildErr  error
)

// BuildTC builds the tc binary once and returns its path.
func BuildTC(t testing.TB) string {
	t.Helper()

	buildOnce.Do(func() {
		moduleRoot, err := findModuleRoot()
		if err != nil {
			buildErr = err
			return
		}

		binDir, err := os.MkdirTemp("", "tc-bin-")
		if err != nil {
			buildErr = err
			return
		}

		tcPath = filepath.Join(binDir, "tc")
		cmd := exec.Command("go", "build", "-o", tcPath, "./cmd/tc")
		cmd.Dir = moduleRoot
		output, err := cmd.CombinedOutput()
		if err != nil {
			buildErr = fmt.Errorf("build tc: %w: %s", err, strings.TrimSpace(string(output)))
		}
	})

	if buildErr != nil {
		t.Fatalf("%v", buildErr)
	}

	return tcPath
}

// StartDevServer runs an in-process task service backed by stateDir and
// returns its URL. The server is closed by cleanup.
func StartDevServer(stateDir string, opts devserver.Options, cleanup func(func())) (string, error) {
	opts.StateDir = stateDir
	if opts.PasswordCost == 0 {
		opts.PasswordCost = bcrypt.MinCost
	}
	server, err := devserver.NewServer(opts)
	if err != nil {
		return "", err
	}
	httpServer := httptest.NewServer(server.Handler())
	cleanup(httpServer.Close)
	return httpServer.URL, nil
}

// SetupScriptEnv configures the tc binary, an isolated home, and a fresh
// dev server for a testscript run.
func SetupScriptEnv(t testing.TB, env *testscript.Env) error {
	t.Helper()

	env.Setenv("TC", BuildTC(t))

	homeDir := filepath.Join(env.WorkDir, "home")
	if err := EnsureHomeDirs(homeDir); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)
	for name, dir := range XDGDirs(homeDir) {
		env.Setenv(name, dir)
	}
	env.Setenv("NO_COLOR", "1")

	url, err := StartDevServer(filepath.Join(env.WorkDir, "server"), devserver.Options{}, env.Defer)
	if err != nil {
		return err
	}
	env.Setenv("TC_API_URL", url)
	return nil
}

// CmdEnvSet stores the trimmed contents of a file in an env var.
func CmdEnvSet(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("envset does not support negation")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: envset VAR FILE")
	}

	value := strings.TrimSpace(ts.ReadFile(args[1]))
	ts.Setenv(args[0], value)
}

// CmdJSONGet reads a top-level field from a JSON object file, or from the
// first element of a JSON array file, into an env var.
func CmdJSONGet(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("jsonget does not support negation")
	}
	if len(args) != 3 {
		ts.Fatalf("usage: jsonget FILE FIELD VAR")
	}

	data := strings.TrimSpace(ts.ReadFile(args[0]))
	var object map[string]any
	if strings.HasPrefix(data, "[") {
		var items []map[string]any
		if err := json.Unmarshal([]byte(data), &items); err != nil {
			ts.Fatalf("parse %s: %v", args[0], err)
		}
		if len(items) == 0 {
			ts.Fatalf("%s is an empty list", args[0])
		}
		object = items[0]
	} else if err := json.Unmarshal([]byte(data), &object); err != nil {
		ts.Fatalf("parse %s: %v", args[0], err)
	}

	value, ok := object[args[1]]
	if !ok {
		ts.Fatalf("field %q not found in %s", args[1], args[0])
	}
	ts.Setenv(args[2], strings.Trim(fmt.Sprint(value), `"`))
}

func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find module root (go.mod)")
		}
		dir = parent
	}
}
