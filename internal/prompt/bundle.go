package prompt

import (
	"fmt"
	"io/fs"
	"slices"
)

// Bundle: 도메인 하나의 프롬프트 모음입니다.
// 파일 이름(확장자 제외)이 프롬프트 이름이 되고 YAML 최상위 키가 필드가 됩니다.
// 모든 필드는 로드 시점에 템플릿으로 해석되므로 문법 오류는 시작할 때 드러납니다.
type Bundle struct {
	label     string
	prompts   map[string]map[string]string
	templates map[string]map[string]Template
}

// LoadBundle: fs 내 dir 디렉터리의 YAML 프롬프트들을 로드하여 Bundle로 반환합니다.
func LoadBundle(fsys fs.FS, dir string, label string) (*Bundle, error) {
	loaded, err := LoadYAMLDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	if len(loaded) == 0 {
		return nil, fmt.Errorf("%s prompts: no yaml files in %s", label, dir)
	}

	templates := make(map[string]map[string]Template, len(loaded))
	for name, fields := range loaded {
		compiled := make(map[string]Template, len(fields))
		for key, src := range fields {
			tmpl, err := ParseTemplate(src)
			if err != nil {
				return nil, fmt.Errorf("%s prompt %s.%s: %w", label, name, key, err)
			}
			compiled[key] = tmpl
		}
		templates[name] = compiled
	}
	return &Bundle{label: label, prompts: loaded, templates: templates}, nil
}

// Prompt: 이름으로 프롬프트 맵을 조회합니다.
func (b *Bundle) Prompt(name string) (map[string]string, error) {
	if b == nil || b.prompts == nil {
		return nil, fmt.Errorf("prompts not initialized")
	}
	promptMap, ok := b.prompts[name]
	if !ok {
		return nil, fmt.Errorf("%s prompt not found: %s", b.label, name)
	}
	return promptMap, nil
}

// Field: 프롬프트의 필드 하나를 조회합니다.
func (b *Bundle) Field(name string, key string) (string, error) {
	data, err := b.Prompt(name)
	if err != nil {
		return "", err
	}
	value, ok := data[key]
	if !ok {
		return "", fmt.Errorf("%s prompt field missing: %s.%s", b.label, name, key)
	}
	return value, nil
}

func (b *Bundle) template(name string, key string) (Template, error) {
	if _, err := b.Field(name, key); err != nil {
		return Template{}, err
	}
	return b.templates[name][key], nil
}

// Require 는 name.key 필드가 정확히 keys 만 치환하는지 확인한다.
func (b *Bundle) Require(name string, key string, keys ...string) error {
	tmpl, err := b.template(name, key)
	if err != nil {
		return err
	}
	got := tmpl.Keys()
	want := append([]string(nil), keys...)
	slices.Sort(got)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		return fmt.Errorf("%s prompt %s.%s: placeholders %v, want %v", b.label, name, key, got, want)
	}
	return nil
}

// Render: 프롬프트 필드에 값을 치환합니다.
func (b *Bundle) Render(name string, key string, values map[string]string) (string, error) {
	tmpl, err := b.template(name, key)
	if err != nil {
		return "", err
	}
	rendered, err := tmpl.Execute(values)
	if err != nil {
		return "", fmt.Errorf("render %s.%s: %w", name, key, err)
	}
	return rendered, nil
}
