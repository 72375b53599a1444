package patch

import (
	"fmt"
	"strings"
	"text/template"
)

// DefaultTemplate is the Vite config written when the generator left none.
const DefaultTemplate = `import { defineConfig } from 'vite'
import react from '@vitejs/plugin-react'

// https://vite.dev/config/
export default defineConfig({
  plugins: [react()],
  base: '{{ js .BasePath }}',
})
`

const pluginTemplate = `import { defineConfig } from 'vite'
import %s from '%s'

// https://vite.dev/config/
export default defineConfig({
  plugins: [%s()],
  base: '{{ js .BasePath }}',
})
`

const plainTemplate = `import { defineConfig } from 'vite'

// https://vite.dev/config/
export default defineConfig({
  base: '{{ js .BasePath }}',
})
`

type plugin struct {
	Import string
	Module string
	Call   string
}

// create-vite template name -> framework plugin
var plugins = map[string]plugin{
	"react":        {"react", "@vitejs/plugin-react", "react"},
	"react-ts":     {"react", "@vitejs/plugin-react", "react"},
	"react-swc":    {"react", "@vitejs/plugin-react-swc", "react"},
	"react-swc-ts": {"react", "@vitejs/plugin-react-swc", "react"},
	"vue":          {"vue", "@vitejs/plugin-vue", "vue"},
	"vue-ts":       {"vue", "@vitejs/plugin-vue", "vue"},
	"preact":       {"preact", "@preact/preset-vite", "preact"},
	"preact-ts":    {"preact", "@preact/preset-vite", "preact"},
	"svelte":       {"{ svelte }", "@sveltejs/vite-plugin-svelte", "svelte"},
	"svelte-ts":    {"{ svelte }", "@sveltejs/vite-plugin-svelte", "svelte"},
	"solid":        {"solid", "vite-plugin-solid", "solid"},
	"solid-ts":     {"solid", "vite-plugin-solid", "solid"},
	"vanilla":      {},
	"vanilla-ts":   {},
	"lit":          {},
	"lit-ts":       {},
}

// TemplateFor returns a default Vite config template for a create-vite
// template name. Unknown names fall back to DefaultTemplate.
func TemplateFor(name string) string {
	p, ok := plugins[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return DefaultTemplate
	}
	if p.Module == "" {
		return plainTemplate
	}
	return fmt.Sprintf(pluginTemplate, p.Import, p.Module, p.Call)
}

// Render executes tmpl with the given base path.
func Render(tmpl, basePath string) (string, error) {
	t, err := template.New("config").Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedTemplate, err)
	}
	var b strings.Builder
	if err := t.Execute(&b, struct{ BasePath string }{basePath}); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedTemplate, err)
	}
	return b.String(), nil
}
