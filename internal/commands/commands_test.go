package fraudcheck

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mwiater/fraudcheck/internal/prompt"
)

func TestPredictCommandPrintsResult(t *testing.T) {
	resetCommandState(t)
	server := newFraudService(t, http.StatusOK, `{"prediction":"fraude","probability":0.8675}`)

	out, err := execute(t, "--baseURL", server.URL, "predict", "--set", "PROVENANCE=FR", "--set", "CODE_BANQUE=B01")
	if err != nil {
		t.Fatalf("predict failed: %v\n%s", err, out)
	}
	for _, want := range []string{"Prédiction: fraude", "Probabilité: 0.87", "[high]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestPredictCommandJSONMode(t *testing.T) {
	resetCommandState(t)
	server := newFraudService(t, http.StatusOK, `{"prediction":"FDV","probability":0.3}`)

	input := filepath.Join(t.TempDir(), "record.json")
	if err := os.WriteFile(input, []byte(`{"CODE_BANQUE": "B01", "PROVENANCE": "CN"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--baseURL", server.URL, "--jsonMode", "predict", "--input", input)
	if err != nil {
		t.Fatalf("predict failed: %v\n%s", err, out)
	}

	var got struct {
		Input       map[string]string `json:"input"`
		Prediction  string            `json:"prediction"`
		Probability float64           `json:"probability"`
		Display     string            `json:"display"`
		Tier        string            `json:"tier"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.Prediction != "FDV" || got.Display != "0.30" || got.Tier != "medium" {
		t.Fatalf("unexpected prediction output %+v", got)
	}
	if diff := cmp.Diff(map[string]string{"PROVENANCE": "CN", "CODE_BANQUE": "B01"}, got.Input); diff != "" {
		t.Fatalf("input mismatch (-want +got):\n%s", diff)
	}
}

func TestPredictCommandRejectsMissingAndUnknownFields(t *testing.T) {
	resetCommandState(t)
	server := newFraudService(t, http.StatusOK, `{"prediction":"fraude","probability":0.9}`)

	_, err := execute(t, "--baseURL", server.URL, "predict", "--set", "PROVENANCE=FR")
	if err == nil || !strings.Contains(err.Error(), "CODE_BANQUE") {
		t.Fatalf("expected missing CODE_BANQUE error, got %v", err)
	}

	resetCommandState(t)
	_, err = execute(t, "--baseURL", server.URL, "predict", "--set", "PROVENANCE=FR", "--set", "CODE_BANQUE=B01", "--set", "COLOR=red")
	if err == nil || !strings.Contains(err.Error(), "COLOR") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestPredictCommandServiceFailure(t *testing.T) {
	resetCommandState(t)
	server := newFraudService(t, http.StatusServiceUnavailable, `down`)

	_, err := execute(t, "--baseURL", server.URL, "predict", "--set", "PROVENANCE=FR", "--set", "CODE_BANQUE=B01")
	if err == nil || !strings.Contains(err.Error(), "Failed to get prediction. Please try again.") {
		t.Fatalf("expected prediction failure, got %v", err)
	}
}

func TestCollectValues(t *testing.T) {
	values, err := collectValues("", []string{"A=1", "B=x=y", "C="})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]string{"A": "1", "B": "x=y", "C": ""}, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if _, err := collectValues("", []string{"novalue"}); err == nil {
		t.Fatal("expected error for a pair without '='")
	}
}

func TestMetadataCommandFormats(t *testing.T) {
	server := newFraudService(t, http.StatusOK, `{}`)

	cases := []struct {
		format string
		want   string
	}{
		{format: "yaml", want: "PROVENANCE: [FR, CN]\nCODE_BANQUE: []\n"},
		{format: "json", want: "{\n  \"PROVENANCE\": [\n    \"FR\",\n    \"CN\"\n  ],\n  \"CODE_BANQUE\": []\n}\n"},
	}
	for _, tc := range cases {
		t.Run(tc.format, func(t *testing.T) {
			resetCommandState(t)
			out, err := execute(t, "--baseURL", server.URL, "metadata", "--format", tc.format)
			if err != nil {
				t.Fatalf("metadata failed: %v", err)
			}
			if out != tc.want {
				t.Fatalf("unexpected %s output:\n%q\nwant:\n%q", tc.format, out, tc.want)
			}
		})
	}

	t.Run("table", func(t *testing.T) {
		resetCommandState(t)
		out, err := execute(t, "--baseURL", server.URL, "metadata")
		if err != nil {
			t.Fatalf("metadata failed: %v", err)
		}
		first, second := strings.Index(out, "PROVENANCE"), strings.Index(out, "CODE_BANQUE")
		if first < 0 || second < first || !strings.Contains(out, "FR, CN") {
			t.Fatalf("unexpected table:\n%s", out)
		}
	})
}

func TestHealthCommand(t *testing.T) {
	resetCommandState(t)
	server := newFraudService(t, http.StatusOK, `{}`)

	out, err := execute(t, "--baseURL", server.URL, "health")
	if err != nil {
		t.Fatalf("health failed: %v", err)
	}
	if !strings.Contains(out, "Fraud Detection API is running.") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestListCommands(t *testing.T) {
	resetCommandState(t)

	out, err := execute(t, "list", "commands")
	if err != nil {
		t.Fatalf("list commands failed: %v", err)
	}
	for _, want := range []string{"Commands and Subcommands:", "fraudcheck", "fraudcheck predict", "fraudcheck list commands"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "completion") {
		t.Fatal("completion commands must be filtered out")
	}
}

type abortingDriver struct{}

func (abortingDriver) Input(ctx context.Context, cfg prompt.InputConfig) (string, error) {
	return "", prompt.ErrAborted
}

func (abortingDriver) Select(ctx context.Context, cfg prompt.SelectConfig) (int, error) {
	return 0, prompt.ErrAborted
}

func (abortingDriver) Confirm(ctx context.Context, cfg prompt.ConfirmConfig) (bool, error) {
	return false, prompt.ErrAborted
}

func (abortingDriver) Info(ctx context.Context, msg string) error { return nil }

func TestPromptCommandTreatsAbortAsExit(t *testing.T) {
	resetCommandState(t)
	server := newFraudService(t, http.StatusOK, `{}`)
	promptDriver = abortingDriver{}
	t.Cleanup(func() { promptDriver = nil })

	if out, err := execute(t, "--baseURL", server.URL, "prompt"); err != nil {
		t.Fatalf("expected a clean exit on abort, got %v\n%s", err, out)
	}
}
