package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalog = `{"_id":"a1","carName":"Toyota Avanza G","brand":"Toyota","model":"Avanza","type":"MPV","price":140000000,"yearOfAssembly":2020,"createdAt":"2024-01-01T00:00:00Z"}
{"_id":"b2","carName":"Honda Brio RS","brand":"Honda","model":"Brio","type":"Hatchback","price":160000000,"yearOfAssembly":2019,"createdAt":"2024-06-01T00:00:00Z"}
{"_id":"c3","carName":"Toyota Innova","brand":"Toyota","model":"Innova","type":"MPV","price":350000000,"yearOfAssembly":2022,"createdAt":"2024-03-01T00:00:00Z"}
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(catalog), 0644))
	t.Setenv("DATABASE_URL", "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--catalog", path))
	err := cmd.Execute()
	return out.String(), err
}

func TestSearchCommand(t *testing.T) {
	out, err := run(t, "search", "toyota", "--sort", "price_asc")
	require.NoError(t, err)

	var resp struct {
		Products []struct {
			ID string `json:"_id"`
		} `json:"products"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Products, 2)
	assert.Equal(t, "a1", resp.Products[0].ID)
	assert.Equal(t, "c3", resp.Products[1].ID)
}

func TestSearchCommandClampsPage(t *testing.T) {
	for _, page := range []string{"0", "-3"} {
		out, err := run(t, "search", "--page="+page, "--size", "1")
		require.NoError(t, err)

		var resp struct {
			Page     int `json:"page"`
			Products []struct {
				ID string `json:"_id"`
			} `json:"products"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, 1, resp.Page, "page %s", page)
		require.Len(t, resp.Products, 1)
		assert.Equal(t, "b2", resp.Products[0].ID)
	}
}

func TestSearchCommandViewedHistory(t *testing.T) {
	out, err := run(t, "search", "--viewed", "Honda:Brio")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, `"b2"`), strings.Index(out, `"c3"`))

	_, err = run(t, "search", "--viewed", "nocolon")
	assert.Error(t, err)
}

func TestSuggestCommand(t *testing.T) {
	out, err := run(t, "suggest", "inova")
	require.NoError(t, err)
	assert.Equal(t, "Innova\n", out)

	out, err = run(t, "suggest", "toyota")
	require.NoError(t, err)
	assert.Empty(t, out, "no suggestion when the query has results")
}

func TestUnknownSearchField(t *testing.T) {
	_, err := run(t, "search", "x", "--fields", "carName,engineCode")
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.jsonl")
	_, err := run(t, "export", "--out", dest)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(data), "\n"))
}
