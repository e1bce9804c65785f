package gamification

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/rayyan/tahfiz/internal/learner"
)

//go:embed tasks.json
var catalogRaw []byte

// catalogSchema constrains the embedded catalog: every task needs an id,
// title, known kind and a positive target; rewards default to zero.
const catalogSchema = `{
  "type": "object",
  "required": ["tasks"],
  "properties": {
    "tasks": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "title", "kind", "target"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "title": {"type": "string", "minLength": 1},
          "kind": {"enum": ["habit", "recitation", "memorization", "daily_target"]},
          "target": {"type": "integer", "minimum": 1},
          "xpReward": {"type": "integer", "minimum": 0},
          "hasanatReward": {"type": "integer", "minimum": 0},
          "filterId": {"type": "string"},
          "minAccuracy": {"type": "integer", "minimum": 0, "maximum": 100}
        },
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": false
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func compiled() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var def any
		if err := json.Unmarshal([]byte(catalogSchema), &def); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://tasks.json", def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("schema://tasks.json")
	})
	return compiledSchema, compileErr
}

type taskSpec struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Kind          string `json:"kind"`
	Target        int    `json:"target"`
	XPReward      int    `json:"xpReward"`
	HasanatReward int    `json:"hasanatReward"`
	FilterID      string `json:"filterId"`
	MinAccuracy   int    `json:"minAccuracy"`
}

type catalogFile struct {
	Tasks []taskSpec `json:"tasks"`
}

// Catalog returns a fresh task list seeded from the embedded catalog,
// validated against its schema. Each call returns new task values so
// records never share them.
func Catalog() ([]*learner.QuestTask, error) {
	return parseCatalog(catalogRaw)
}

func parseCatalog(raw []byte) ([]*learner.QuestTask, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("invalid catalog JSON: %w", err)
	}
	schema, err := compiled()
	if err != nil {
		return nil, fmt.Errorf("compile catalog schema: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("catalog schema validation failed: %w", err)
	}

	var file catalogFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	tasks := make([]*learner.QuestTask, 0, len(file.Tasks))
	for _, spec := range file.Tasks {
		if spec.MinAccuracy == 0 {
			spec.MinAccuracy = defaultGate(learner.TaskKind(spec.Kind))
		}
		tasks = append(tasks, &learner.QuestTask{
			ID:            spec.ID,
			Title:         spec.Title,
			Kind:          learner.TaskKind(spec.Kind),
			Status:        learner.TaskLocked,
			Target:        spec.Target,
			XPReward:      spec.XPReward,
			HasanatReward: spec.HasanatReward,
			FilterID:      spec.FilterID,
			MinAccuracy:   spec.MinAccuracy,
		})
	}
	return tasks, nil
}

// defaultGate is the accuracy threshold applied when a task omits
// minAccuracy. Habit and daily-target tasks are never accuracy-gated.
func defaultGate(kind learner.TaskKind) int {
	switch kind {
	case learner.TaskRecitation:
		return RecitationGate
	case learner.TaskMemorization:
		return MemorizationGate
	default:
		return 0
	}
}
