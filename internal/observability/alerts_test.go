package observability

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type alertFile struct {
	Groups []struct {
		Name  string `yaml:"name"`
		Rules []struct {
			Alert       string            `yaml:"alert"`
			Expr        string            `yaml:"expr"`
			For         string            `yaml:"for"`
			Labels      map[string]string `yaml:"labels"`
			Annotations map[string]string `yaml:"annotations"`
		} `yaml:"rules"`
	} `yaml:"groups"`
}

var metricRef = regexp.MustCompile(`inventory_[a-z_]+`)

func readRepoFile(t *testing.T, parts ...string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(append([]string{"..", ".."}, parts...)...))
	require.NoError(t, err)
	return data
}

// runbookAnchors turns markdown "## Title" headings into "#title" anchors.
func runbookAnchors(doc string) map[string]bool {
	anchors := make(map[string]bool)
	for _, line := range strings.Split(doc, "\n") {
		if !strings.HasPrefix(line, "## ") {
			continue
		}
		slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(line[3:])), " ", "-")
		anchors["#"+slug] = true
	}
	return anchors
}

// exportedMetrics exercises every metric once so vectors appear in Gather.
func exportedMetrics(t *testing.T) map[string]bool {
	t.Helper()
	m := NewMetrics()
	m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/sales", nil))
	m.ObserveLedger("sale", "success", 10*time.Millisecond)
	m.Jobs().SetLowStock(3)
	_ = m.Jobs().Track("inventory:low_stock_scan").End(nil)

	families, err := m.registry.Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	return names
}

func TestInventoryAlertRules(t *testing.T) {
	var file alertFile
	require.NoError(t, yaml.Unmarshal(readRepoFile(t, "deploy", "prometheus", "alerts", "inventory.yml"), &file))
	require.Len(t, file.Groups, 1)
	require.Equal(t, "inventory", file.Groups[0].Name)
	require.NotEmpty(t, file.Groups[0].Rules)

	anchors := runbookAnchors(string(readRepoFile(t, "docs", "runbook-inventory.md")))
	metrics := exportedMetrics(t)

	for _, rule := range file.Groups[0].Rules {
		t.Run(rule.Alert, func(t *testing.T) {
			assert.Contains(t, []string{"critical", "warning"}, rule.Labels["severity"])
			assert.NotEmpty(t, rule.For)
			assert.NotEmpty(t, rule.Annotations["summary"])
			assert.NotEmpty(t, rule.Annotations["description"])

			runbook := rule.Annotations["runbook"]
			require.True(t, strings.HasPrefix(runbook, "docs/runbook-inventory.md#"), runbook)
			assert.True(t, anchors[strings.TrimPrefix(runbook, "docs/runbook-inventory.md")], "missing runbook section %s", runbook)

			refs := metricRef.FindAllString(rule.Expr, -1)
			require.NotEmpty(t, refs)
			for _, ref := range refs {
				name := strings.TrimSuffix(strings.TrimSuffix(ref, "_bucket"), "_count")
				assert.True(t, metrics[name], "alert %s references unknown metric %s", rule.Alert, ref)
			}
		})
	}
}
