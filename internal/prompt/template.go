package prompt

import (
	"fmt"
	"strings"
)

// segment 은 리터럴 텍스트 또는 치환 자리 하나다.
type segment struct {
	text string
	key  string
}

// Template 은 미리 해석된 프롬프트 템플릿이다.
// {key} 는 치환 자리이고 리터럴 중괄호는 {{ 와 }} 로 쓴다.
type Template struct {
	segments []segment
	keys     []string
}

// ParseTemplate 은 템플릿 문법을 검사하고 조각으로 나눈다.
func ParseTemplate(src string) (Template, error) {
	var (
		tmpl    Template
		literal strings.Builder
		seen    = make(map[string]struct{})
	)
	flush := func() {
		if literal.Len() > 0 {
			tmpl.segments = append(tmpl.segments, segment{text: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(src); {
		switch src[i] {
		case '{':
			if i+1 < len(src) && src[i+1] == '{' {
				literal.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(src[i+1:], '}')
			if end < 0 {
				return Template{}, fmt.Errorf("invalid template: missing '}' at offset %d", i)
			}
			key := strings.TrimSpace(src[i+1 : i+1+end])
			if key == "" {
				return Template{}, fmt.Errorf("invalid template: empty placeholder at offset %d", i)
			}
			flush()
			tmpl.segments = append(tmpl.segments, segment{key: key})
			if _, dup := seen[key]; !dup {
				seen[key] = struct{}{}
				tmpl.keys = append(tmpl.keys, key)
			}
			i += end + 2
		case '}':
			if i+1 < len(src) && src[i+1] == '}' {
				literal.WriteByte('}')
				i += 2
				continue
			}
			return Template{}, fmt.Errorf("invalid template: unexpected '}' at offset %d", i)
		default:
			literal.WriteByte(src[i])
			i++
		}
	}
	flush()
	return tmpl, nil
}

// Keys 는 템플릿이 참조하는 치환 키를 등장 순서대로 반환한다.
func (t Template) Keys() []string {
	return append([]string(nil), t.keys...)
}

// Execute 는 값을 치환한다. 치환된 값은 다시 해석하지 않는다.
func (t Template) Execute(values map[string]string) (string, error) {
	var builder strings.Builder
	for _, seg := range t.segments {
		if seg.key == "" {
			builder.WriteString(seg.text)
			continue
		}
		value, ok := values[seg.key]
		if !ok {
			return "", fmt.Errorf("missing template value for %q", seg.key)
		}
		builder.WriteString(value)
	}
	return builder.String(), nil
}

// FormatTemplate: 템플릿을 해석한 뒤 바로 치환합니다.
func FormatTemplate(src string, values map[string]string) (string, error) {
	tmpl, err := ParseTemplate(src)
	if err != nil {
		return "", err
	}
	return tmpl.Execute(values)
}

// ValidateSystemStatic 은 시스템 프롬프트에 치환 자리가 없는지 검사한다.
func ValidateSystemStatic(name string, system string) error {
	tmpl, err := ParseTemplate(system)
	if err != nil {
		return fmt.Errorf("%s: system prompt: %w", name, err)
	}
	if keys := tmpl.Keys(); len(keys) > 0 {
		return fmt.Errorf("%s: system prompt must not contain template variables %q", name, keys[0])
	}
	return nil
}
