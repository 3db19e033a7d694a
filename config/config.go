// Package config loads resource definitions from a YAML file and turns them
// into a crudy.Registry.
//
// Example file:
//
//	baseURL: https://api.example.com
//	timeout: 10s
//	headers:
//	  User-Agent: crudy
//	resources:
//	  users: /users
//	  posts:
//	    url: /posts
//	    extract: $.data
//	    schemas:
//	      request:
//	        create: schemas/new-post.json
//	      response:
//	        get: schemas/post.json
//
// Resource URLs without a scheme are joined to baseURL. Schema entries are
// paths relative to the config file, or inline JSON documents.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/broady/crudy"
	"github.com/broady/crudy/middleware"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config is the top-level configuration file.
type Config struct {
	BaseURL   string              `yaml:"baseURL" validate:"omitempty,url"`
	Timeout   time.Duration       `yaml:"timeout" validate:"gte=0"`
	Headers   map[string]string   `yaml:"headers"`
	Resources map[string]Resource `yaml:"resources" validate:"required,min=1,dive,keys,required,endkeys"`

	// dir is the directory schema paths are resolved against.
	dir string
}

// Resource describes one REST collection.
// In YAML it is either a bare URL string or a mapping.
type Resource struct {
	URL     string  `yaml:"url" validate:"required"`
	Extract string  `yaml:"extract"`
	Schemas Schemas `yaml:"schemas"`
}

// Schemas names JSON-schema documents per operation.
type Schemas struct {
	Request  map[string]string `yaml:"request" validate:"dive,keys,oneof=create update,endkeys,required"`
	Response map[string]string `yaml:"response" validate:"dive,keys,oneof=get list create update,endkeys,required"`
}

// UnmarshalYAML accepts either "name: url" or a full mapping.
func (r *Resource) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&r.URL)
	}
	type plain Resource
	return node.Decode((*plain)(r))
}

func (r Resource) plain() bool {
	return r.Extract == "" && len(r.Schemas.Request) == 0 && len(r.Schemas.Response) == 0
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates configuration data. Relative schema paths
// are resolved against dir.
func Parse(data []byte, dir string) (*Config, error) {
	cfg := &Config{dir: dir}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for missing or malformed fields.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return err
	}
	msgs := make([]string, 0, len(valErrs))
	for _, fe := range valErrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %s validation", strings.TrimPrefix(fe.Namespace(), "Config."), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Endpoints returns resource name → absolute base URL.
func (c *Config) Endpoints() map[string]string {
	out := make(map[string]string, len(c.Resources))
	for name, r := range c.Resources {
		out[name] = c.resolve(r.URL)
	}
	return out
}

func (c *Config) resolve(u string) string {
	if strings.Contains(u, "://") || c.BaseURL == "" {
		return u
	}
	return strings.TrimSuffix(c.BaseURL, "/") + "/" + strings.TrimPrefix(u, "/")
}

// Options returns the crudy options implied by the file: an HTTP transport
// with the configured timeout and the static headers.
func (c *Config) Options() []crudy.Option {
	opts := []crudy.Option{
		crudy.WithTransport(crudy.NewHTTPTransport(&http.Client{Timeout: c.Timeout})),
	}
	if len(c.Headers) > 0 {
		h := make(http.Header, len(c.Headers))
		for k, v := range c.Headers {
			h.Set(k, v)
		}
		opts = append(opts, crudy.WithMiddleware(middleware.Headers(h)))
	}
	return opts
}

// Registry builds every configured resource. opts are applied after the
// file's own options, so they can override the transport or add hooks.
func (c *Config) Registry(opts ...crudy.Option) (crudy.Registry, error) {
	shared := append(c.Options(), opts...)

	plain := make(map[string]string)
	for name, r := range c.Resources {
		if r.plain() {
			plain[name] = c.resolve(r.URL)
		}
	}
	reg := crudy.NewRegistry(plain, shared...)

	for name, r := range c.Resources {
		if r.plain() {
			continue
		}
		extra, err := c.resourceOptions(r)
		if err != nil {
			return nil, fmt.Errorf("config: resource %s: %w", name, err)
		}
		reg[name] = crudy.New(c.resolve(r.URL), append(append([]crudy.Option{}, shared...), extra...)...)
	}
	return reg, nil
}

func (c *Config) resourceOptions(r Resource) ([]crudy.Option, error) {
	var opts []crudy.Option
	if r.Extract != "" {
		d, err := crudy.JSONPath(r.Extract)
		if err != nil {
			return nil, err
		}
		opts = append(opts, crudy.WithDeserializer(d))
	}

	if len(r.Schemas.Request) == 0 && len(r.Schemas.Response) == 0 {
		return opts, nil
	}

	var s crudy.Schemas
	targets := map[string]*crudy.Validator{
		"request.create":  &s.Request.Create,
		"request.update":  &s.Request.Update,
		"response.get":    &s.Response.Get,
		"response.list":   &s.Response.List,
		"response.create": &s.Response.Create,
		"response.update": &s.Response.Update,
	}
	for side, m := range map[string]map[string]string{"request": r.Schemas.Request, "response": r.Schemas.Response} {
		for op, src := range m {
			target, ok := targets[side+"."+op]
			if !ok {
				return nil, fmt.Errorf("no %s schema slot for %s", side, op)
			}
			v, err := c.loadSchema(src)
			if err != nil {
				return nil, fmt.Errorf("%s schema for %s: %w", side, op, err)
			}
			*target = v
		}
	}
	return append(opts, crudy.WithSchemas(s)), nil
}

func (c *Config) loadSchema(src string) (crudy.Validator, error) {
	src = strings.TrimSpace(src)
	if strings.HasPrefix(src, "{") {
		return crudy.JSONSchema(src)
	}
	path := src
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return crudy.JSONSchema(string(data))
}
