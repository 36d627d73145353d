package definition

// Definition is the root of a deliverable definition file.
type Definition struct {
	Name         string            `yaml:"name" toml:"name"`
	Version      string            `yaml:"version" toml:"version"`
	Description  string            `yaml:"description,omitempty" toml:"description,omitempty"`
	Author       string            `yaml:"author,omitempty" toml:"author,omitempty"`
	Labels       map[string]string `yaml:"labels,omitempty" toml:"labels,omitempty"`
	Extra        map[string]any    `yaml:"extra,omitempty" toml:"extra,omitempty"`
	Dependencies []string          `yaml:"dependencies,omitempty" toml:"dependencies,omitempty"`
	Model        ModelSpec         `yaml:"model" toml:"model"`
	Processors   []ProcessorSpec   `yaml:"processors,omitempty" toml:"processors,omitempty"`
	Pipeline     PipelineSpec      `yaml:"pipeline,omitempty" toml:"pipeline,omitempty"`

	// Path is the file the definition was read from. Not serialized.
	Path string `yaml:"-" toml:"-"`
}

// ModelSpec declares the model directory to package.
type ModelSpec struct {
	Type         string   `yaml:"type" toml:"type"`
	Version      string   `yaml:"version,omitempty" toml:"version,omitempty"`
	Source       string   `yaml:"source" toml:"source"`
	Dependencies []string `yaml:"dependencies,omitempty" toml:"dependencies,omitempty"`
}

// ProcessorSpec declares one processor instance.
type ProcessorSpec struct {
	Name         string         `yaml:"name" toml:"name"`
	Class        string         `yaml:"class" toml:"class"`
	Parameters   map[string]any `yaml:"parameters,omitempty" toml:"parameters,omitempty"`
	Dependencies []string       `yaml:"dependencies,omitempty" toml:"dependencies,omitempty"`
}

// PipelineSpec orders processors by stage.
type PipelineSpec struct {
	Pre  []string `yaml:"pre,omitempty" toml:"pre,omitempty"`
	Post []string `yaml:"post,omitempty" toml:"post,omitempty"`
}

// DefaultFileName is looked up when no definition path is given.
const DefaultFileName = "deliverable.yaml"
