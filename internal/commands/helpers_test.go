package fraudcheck

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mwiater/fraudcheck/internal/logging"
	"github.com/spf13/viper"
)

var persistentFlagNames = []string{"baseURL", "timeout", "debug", "jsonMode", "resetOnError", "metrics", "logFile"}

func resetFlag(cmdFlag string) {
	flag := rootCmd.PersistentFlags().Lookup(cmdFlag)
	if flag == nil {
		return
	}
	_ = flag.Value.Set(flag.DefValue)
	flag.Changed = false
}

// resetCommandState restores the flags and viper bindings shared by every
// test that drives the global command tree.
func resetCommandState(t *testing.T) {
	t.Helper()
	for _, name := range persistentFlagNames {
		resetFlag(name)
	}
	if set := predictCmd.Flags().Lookup("set"); set != nil {
		if replacer, ok := set.Value.(interface{ Replace([]string) error }); ok {
			_ = replacer.Replace([]string{})
		}
		set.Changed = false
	}
	predictInput = ""
	metadataFormat = "table"
	if f := metadataCmd.Flags().Lookup("format"); f != nil {
		f.Changed = false
	}
	currentConfig = nil

	configPath := writeTempConfig(t, "{}")
	prevCfgFile := cfgFile
	cfgFile = configPath
	viper.SetConfigFile(configPath)
	t.Cleanup(func() {
		cfgFile = prevCfgFile
		viper.SetConfigFile(prevCfgFile)
		rootCmd.SetArgs([]string{})
		_ = logging.Close()
	})
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// execute runs the root command with args plus a temporary log file.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "fraudcheck.log")
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append(args, "--logFile", logPath))
	_, err := rootCmd.ExecuteC()
	return buf.String(), err
}

// newFraudService serves the metadata and prediction endpoints.
func newFraudService(t *testing.T, predictStatus int, predictBody string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/metadata", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"PROVENANCE": ["FR","CN"], "CODE_BANQUE": []}`))
	})
	mux.HandleFunc("/predict", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(predictStatus)
		_, _ = w.Write([]byte(predictBody))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"Fraud Detection API is running."}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}
