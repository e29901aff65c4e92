package assets

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritePlan(t *testing.T) {
	data := PlanTemplate{
		MaterialID: "math",
		Name:       "Calculus workbook",
		UnitType:   "PAGES",
		Progress:   20,
		Total:      100,
		StartDate:  "2025-06-02",
		Deadline:   "2025-06-06",
		Excluded:   []string{"Sunday", "Saturday"},
		Rows: []PlanRow{
			{Date: "2025-06-02", Weekday: "Mon", Label: "p. 1-20", Amount: 20, Status: "done"},
			{Date: "2025-06-03", Weekday: "Tue", Label: "p. 21-40", Amount: 20, Status: "today"},
		},
		Warnings:    []string{"deadline too tight"},
		GeneratedOn: "2025-06-03",
	}

	tests := []struct {
		name         string
		templatePath func(t *testing.T) string
		want         []string
		wantErr      string
	}{
		{
			name:         "embedded template",
			templatePath: func(t *testing.T) string { return "" },
			want: []string{
				"# Calculus workbook\n",
				"- Progress: 20 / 100\n",
				"- Window: 2025-06-02 to 2025-06-06\n",
				"- Excluded weekdays: Sunday, Saturday\n",
				"| 2025-06-02 | Mon | p. 1-20 | 20 | done |\n",
				"| 2025-06-03 | Tue | p. 21-40 | 20 | today |\n",
				"## Warnings\n\n- deadline too tight\n",
				"_Generated on 2025-06-03_\n",
			},
		},
		{
			name: "filesystem template",
			templatePath: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "custom.md.go.tmpl")
				require.NoError(t, os.WriteFile(path, []byte(`{{ .Name }}: {{ range .Rows }}{{ .Label }};{{ end }}`), 0644))
				return path
			},
			want: []string{"Calculus workbook: p. 1-20;p. 21-40;"},
		},
		{
			name:         "missing template file",
			templatePath: func(t *testing.T) string { return "/non/existent/plan.md.go.tmpl" },
			wantErr:      "template file not found or accessible",
		},
		{
			name: "broken template file",
			templatePath: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "broken.md.go.tmpl")
				require.NoError(t, os.WriteFile(path, []byte(`{{ .Name `), 0644))
				return path
			},
			wantErr: "failed to parse template file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := WritePlan(&buf, tt.templatePath(t), data)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestWritePlan_OpenEnded(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePlan(&buf, "", PlanTemplate{Name: "Novel", StartDate: "2025-06-02"}))
	assert.Contains(t, buf.String(), "- Window: 2025-06-02 to open ended\n")
	assert.NotContains(t, buf.String(), "Excluded weekdays")
	assert.NotContains(t, buf.String(), "## Warnings")
}
