// File: cmd/report_test.go
package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/beevik/etree"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/faultline/internal/config"
)

const testModelJSON = `{
  "name": "demo",
  "fault-trees": [
    {
      "name": "CoolingFailure",
      "gates": [
        {"id": "top", "type": "and", "children": ["train-a", "train-b"]},
        {"id": "train-a", "type": "or", "children": ["pump-a", "valves"]},
        {"id": "train-b", "type": "or", "children": ["pump-b"]}
      ]
    }
  ],
  "basic-events": [
    {"id": "pump-a", "label": "Pump A"},
    {"id": "pump-b", "label": "Pump B"},
    {"id": "spare", "label": "Spare pump"}
  ],
  "ccf-groups": [
    {"name": "valves", "size": 2, "events": [{"id": "valves", "members": ["valve-a", "valve-b"]}]}
  ]
}`

const testResultsJSON = `{
  "results": [
    {
      "name": "CoolingFailure",
      "basic-events": 3,
      "time": 0.01,
      "products": [
        {"members": ["pump-a", "pump-b"], "probability": 0.0001},
        {"members": ["valves", "not pump-b"], "probability": 0.0002}
      ],
      "probability": {
        "total": 0.0003,
        "time": 0.002,
        "importance-time": 0.001,
        "importance": {"pump-a": [1, 2, 3, 4, 5]}
      },
      "uncertainty": {
        "mean": 0.0003,
        "sigma": 0.0001,
        "confidence": [0.0001, 0.0005],
        "distribution": [[0, 0], [0.0003, 0.5], [0.0006, 1]],
        "time": 0.3
      }
    }
  ]
}`

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReportCommand_EndToEnd(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	config.SetDefaults(viper.GetViper())
	viper.Set("analysis.probability_analysis", true)
	viper.Set("analysis.importance_analysis", true)
	viper.Set("analysis.uncertainty_analysis", true)
	viper.Set("analysis.ccf_analysis", true)

	dir := t.TempDir()
	modelPath := writeTempFile(t, dir, "model.json", testModelJSON)
	resultsPath := writeTempFile(t, dir, "results.json", testResultsJSON)
	outputPath := filepath.Join(dir, "report.xml")

	cmd := newReportCmd()
	cmd.SetArgs([]string{"--model", modelPath, "--results", resultsPath, "--output", outputPath})
	require.NoError(t, cmd.Execute())

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromFile(outputPath))

	// Information side: all five quantity declarations, model features,
	// the orphan warning, and a complete calculation-time entry.
	assert.Len(t, doc.FindElements("./report/information/calculated-quantity"), 5)
	assert.Equal(t, "3", doc.FindElement("./report/information/model-features/gates").Text())
	warning := doc.FindElement("./report/information/warning")
	require.NotNil(t, warning)
	assert.Contains(t, warning.Text(), "Spare pump")

	ct := doc.FindElement("./report/information/performance/calculation-time")
	require.NotNil(t, ct)
	assert.Equal(t, "CoolingFailure", ct.SelectAttrValue("name", ""))
	require.NotNil(t, ct.SelectElement("minimal-cut-set"))
	require.NotNil(t, ct.SelectElement("probability"))
	require.NotNil(t, ct.SelectElement("importance"))
	require.NotNil(t, ct.SelectElement("uncertainty"))

	// Results side: one section per analysis kind.
	sop := doc.FindElement("./report/results/sum-of-products")
	require.NotNil(t, sop)
	assert.Equal(t, "2", sop.SelectAttrValue("products", ""))
	ccf := sop.FindElement("./product/ccf-event")
	require.NotNil(t, ccf)
	assert.Equal(t, "valves", ccf.SelectAttrValue("ccf-group", ""))
	negated := sop.FindElement("./product/not/basic-event")
	require.NotNil(t, negated)
	assert.Equal(t, "Pump B", negated.SelectAttrValue("name", ""))

	require.NotNil(t, doc.FindElement("./report/results/importance"))
	measure := doc.FindElement("./report/results/measure")
	require.NotNil(t, measure)
	assert.Equal(t, "2", measure.FindElement("./quantiles").SelectAttrValue("number", ""))
}

func TestReportCommand_MissingModelFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	config.SetDefaults(viper.GetViper())

	cmd := newReportCmd()
	cmd.SetArgs([]string{"--model", filepath.Join(t.TempDir(), "absent.json")})
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model file")
}

func TestReportCommand_InvalidConfigRejected(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	config.SetDefaults(viper.GetViper())
	viper.Set("analysis.limit_order", 0)

	cmd := newReportCmd()
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit_order")
}
