package prompt

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var promptExtensions = []string{".yml", ".yaml"}

// LoadYAMLMapping 는 프롬프트 YAML 파일 하나를 필드 맵으로 읽는다.
// 필드 값은 스칼라여야 한다. 목록이나 맵은 프롬프트 텍스트가 될 수 없다.
func LoadYAMLMapping(fsys fs.FS, filePath string) (map[string]string, error) {
	data, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return nil, fmt.Errorf("read prompt file: %w", err)
	}

	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse prompt yaml %s: %w", filePath, err)
	}

	mapping := make(map[string]string, len(raw))
	for key, node := range raw {
		switch node.Kind {
		case yaml.ScalarNode:
			if node.Tag == "!!null" {
				mapping[key] = ""
				continue
			}
			mapping[key] = node.Value
		default:
			return nil, fmt.Errorf("%s: field %q must be a string", filePath, key)
		}
	}

	if system := mapping["system"]; strings.TrimSpace(system) != "" {
		if err := ValidateSystemStatic(filePath, system); err != nil {
			return nil, err
		}
	}
	return mapping, nil
}

// LoadYAMLDir 는 dir 바로 아래의 프롬프트 파일을 이름별로 읽는다.
// 같은 이름이 .yml 과 .yaml 로 둘 다 있으면 오류다.
func LoadYAMLDir(fsys fs.FS, dir string) (map[string]map[string]string, error) {
	var paths []string
	for _, ext := range promptExtensions {
		matched, err := fs.Glob(fsys, path.Join(dir, "*"+ext))
		if err != nil {
			return nil, fmt.Errorf("glob prompt dir: %w", err)
		}
		paths = append(paths, matched...)
	}
	sort.Strings(paths)

	prompts := make(map[string]map[string]string, len(paths))
	sources := make(map[string]string, len(paths))
	for _, filePath := range paths {
		name := strings.TrimSuffix(path.Base(filePath), path.Ext(filePath))
		if prev, dup := sources[name]; dup {
			return nil, fmt.Errorf("duplicate prompt %q: %s and %s", name, prev, filePath)
		}
		mapping, err := LoadYAMLMapping(fsys, filePath)
		if err != nil {
			return nil, err
		}
		prompts[name] = mapping
		sources[name] = filePath
	}
	return prompts, nil
}
