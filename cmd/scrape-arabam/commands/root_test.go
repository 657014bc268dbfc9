package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"galeri/internal/models"
	"galeri/internal/scraper"
)

func sampleResult() *scraper.Result {
	return &scraper.Result{
		Source: "https://www.arabam.com/galeri/ornek",
		Cars: []models.BulkCarInput{
			{Brand: "Renault", Model: "Clio", Year: 2019, Price: 450000, Km: 50000, FuelType: "Benzin", TransmissionType: "Manuel", Color: "Beyaz"},
		},
		Count:   1,
		Skipped: []string{"table row 3: missing price"},
	}
}

func TestWriteResult(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeResult(&buf, "json", sampleResult()))
		var got scraper.Result
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, 1, got.Count)
		assert.Equal(t, "Clio", got.Cars[0].Model)
		assert.Contains(t, buf.String(), `"fuelType": "Benzin"`)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeResult(&buf, "yaml", sampleResult()))
		var got scraper.Result
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "Renault", got.Cars[0].Brand)
		assert.Contains(t, buf.String(), "transmissionType: Manuel")
	})
}

func TestRootCmd_Validation(t *testing.T) {
	t.Run("needs a url", func(t *testing.T) {
		cmd := NewRootCmd()
		cmd.SetArgs([]string{})
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		assert.Error(t, cmd.Execute())
	})

	t.Run("unknown format", func(t *testing.T) {
		cmd := NewRootCmd()
		cmd.SetArgs([]string{"https://www.arabam.com/galeri/ornek", "--format", "xml"})
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		err := cmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported format")
	})

	t.Run("foreign host", func(t *testing.T) {
		cmd := NewRootCmd()
		cmd.SetArgs([]string{"https://example.com/galeri"})
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		assert.ErrorIs(t, cmd.Execute(), scraper.ErrInvalidURL)
	})
}
