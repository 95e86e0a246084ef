package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"gopkg.in/yaml.v2"
)

type PushTrigger struct {
	Branches []string `yaml:"branches,omitempty"`
	Tags     []string `yaml:"tags,omitempty"`
}

type Trigger struct {
	Push        PushTrigger `yaml:"push,omitempty"`
	PullRequest PushTrigger `yaml:"pull_request,omitempty"`
}

type Args map[string]interface{}

type Step struct {
	Name string            `yaml:"name,omitempty"`
	Uses string            `yaml:"uses,omitempty"`
	Run  string            `yaml:"run,omitempty"`
	With Args              `yaml:"with,omitempty"`
	Env  map[string]string `yaml:"env,omitempty"`
}

type Strategy struct {
	Matrix map[string][]string `yaml:"matrix"`
}

type Job struct {
	RunsOn   string    `yaml:"runs-on"`
	Strategy *Strategy `yaml:"strategy,omitempty"`
	Steps    []Step    `yaml:"steps"`
}

type Workflow struct {
	Name string         `yaml:"name"`
	On   Trigger        `yaml:"on,omitempty"`
	Jobs map[string]Job `yaml:"jobs"`
}

const goVersion = "1.22"

func setup() []Step {
	return []Step{{
		Name: "Checkout",
		Uses: "actions/checkout@v4",
	}, {
		Name: "Set up Go",
		Uses: "actions/setup-go@v5",
		With: Args{"go-version": goVersion},
	}}
}

// WorkflowCI tests every package and cross-compiles the CLI for each
// target platform.
func WorkflowCI(platforms ...string) Workflow {
	return Workflow{
		Name: "ci",
		On: Trigger{
			Push:        PushTrigger{Branches: []string{"main"}},
			PullRequest: PushTrigger{Branches: []string{"main"}},
		},
		Jobs: map[string]Job{
			"test": {
				RunsOn: "ubuntu-latest",
				Steps: append(setup(), Step{
					Name: "Vet",
					Run:  "go vet ./...",
				}, Step{
					Name: "Test",
					Run:  "go test -race ./...",
				}),
			},
			"build": {
				RunsOn:   "ubuntu-latest",
				Strategy: &Strategy{Matrix: map[string][]string{"platform": platforms}},
				Steps: append(setup(), Step{
					Name: "Build",
					Env:  map[string]string{"PLATFORM": "${{ matrix.platform }}"},
					Run: `GOOS="${PLATFORM%/*}" GOARCH="${PLATFORM#*/}" \
  go build -o "reels-${PLATFORM%/*}-${PLATFORM#*/}" ./cmd/reels`,
				}),
			},
		},
	}
}

func MarshalToWriter(w io.Writer, v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling to YAML: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing YAML: %w", err)
	}
	return nil
}

func main() {
	if err := MarshalToWriter(
		os.Stdout,
		WorkflowCI("linux/amd64", "linux/arm64", "darwin/arm64"),
	); err != nil {
		log.Fatalf("marshaling ci workflow: %v", err)
	}
}
