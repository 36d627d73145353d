// Package processor implements the processor collaborator of a deliverable:
// named pre- and post-processing instances and the pipeline that orders them.
package processor

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"go.yaml.in/yaml/v3"
)

// DescriptorVersion is the format version of the processor descriptor.
const DescriptorVersion = "1.0"

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// Instance is one configured processor.
type Instance struct {
	Name         string
	Class        string
	Parameters   map[string]any
	Dependencies []string
}

// InstanceDescriptor describes a serialized instance.
type InstanceDescriptor struct {
	Class     string `json:"class"`
	Parameter string `json:"parameter"`
}

// Pipeline orders instances around model inference.
type Pipeline struct {
	Pre  []string `json:"pre"`
	Post []string `json:"post"`
}

// Descriptor is embedded into the package manifest.
type Descriptor struct {
	Version  string                        `json:"version"`
	Instance map[string]InstanceDescriptor `json:"instance"`
	Pipeline Pipeline                      `json:"pipeline"`
}

// Builder collects processor instances and their pipeline order.
type Builder struct {
	instances map[string]Instance
	order     []string
	pipeline  Pipeline
}

// NewBuilder returns an empty Builder. An empty Builder is a valid
// collaborator that declares no processors.
func NewBuilder() *Builder {
	return &Builder{
		instances: make(map[string]Instance),
		pipeline:  Pipeline{Pre: []string{}, Post: []string{}},
	}
}

// Add registers an instance. Names must be unique.
func (b *Builder) Add(inst Instance) error {
	if !namePattern.MatchString(inst.Name) {
		return fmt.Errorf("invalid processor name %q", inst.Name)
	}
	if inst.Class == "" {
		return fmt.Errorf("processor %q: class is required", inst.Name)
	}
	if _, ok := b.instances[inst.Name]; ok {
		return fmt.Errorf("processor %q already registered", inst.Name)
	}

	b.instances[inst.Name] = inst
	b.order = append(b.order, inst.Name)
	return nil
}

// AddPre appends a registered instance to the pre-processing stage.
func (b *Builder) AddPre(name string) error {
	if _, ok := b.instances[name]; !ok {
		return fmt.Errorf("pre-processor %q is not registered", name)
	}
	b.pipeline.Pre = append(b.pipeline.Pre, name)
	return nil
}

// AddPost appends a registered instance to the post-processing stage.
func (b *Builder) AddPost(name string) error {
	if _, ok := b.instances[name]; !ok {
		return fmt.Errorf("post-processor %q is not registered", name)
	}
	b.pipeline.Post = append(b.pipeline.Post, name)
	return nil
}

// Serialize writes one <name>.yaml parameter file per instance into dir.
func (b *Builder) Serialize(dir string) (any, error) {
	desc := Descriptor{
		Version:  DescriptorVersion,
		Instance: make(map[string]InstanceDescriptor, len(b.instances)),
		Pipeline: Pipeline{
			Pre:  append([]string{}, b.pipeline.Pre...),
			Post: append([]string{}, b.pipeline.Post...),
		},
	}

	for _, name := range b.order {
		inst := b.instances[name]
		file := name + ".yaml"

		params := inst.Parameters
		if params == nil {
			params = map[string]any{}
		}
		data, err := yaml.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("encoding parameters of %s: %w", name, err)
		}

		path := filepath.Join(dir, file)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", path, err)
		}

		desc.Instance[name] = InstanceDescriptor{Class: inst.Class, Parameter: file}
	}

	return desc, nil
}

// Dependencies returns the union of every instance's declared dependencies,
// in registration order. Duplicates are kept.
func (b *Builder) Dependencies() []string {
	var deps []string
	for _, name := range b.order {
		deps = append(deps, b.instances[name].Dependencies...)
	}
	return deps
}

// ReadParameters loads the parameters of a serialized instance.
func ReadParameters(dir string, d InstanceDescriptor) (map[string]any, error) {
	path := filepath.Join(dir, d.Parameter)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	params := map[string]any{}
	if err := yaml.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return params, nil
}
