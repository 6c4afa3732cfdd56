package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/stokosor/internal/config"
	"github.com/vbonduro/stokosor/internal/domain"
	"github.com/vbonduro/stokosor/internal/photostore"
	"github.com/vbonduro/stokosor/internal/snapshot"
)

type cli struct {
	t        *testing.T
	dbPath   string
	photoDir string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("STOKOSOR_PHOTO_PATH", filepath.Join(dir, "photos"))
	return &cli{t: t, dbPath: filepath.Join(dir, "stokosor.db"), photoDir: filepath.Join(dir, "photos")}
}

func (c *cli) run(args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), append([]string{"--db", c.dbPath}, args...), &stdout, &stderr)
	return stdout.String(), err
}

// photoFiles counts the files in the photo directory.
func (c *cli) photoFiles() int {
	c.t.Helper()
	entries, err := os.ReadDir(c.photoDir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0
	}
	require.NoError(c.t, err)
	return len(entries)
}

func (c *cli) must(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "stokosor %s", strings.Join(args, " "))
	return strings.TrimSpace(out)
}

func TestInventoryWorkflow(t *testing.T) {
	c := newCLI(t)

	placeID := c.must("place", "add", "Garage")
	zoneID := c.must("zone", "add", placeID, "Shelf Unit")
	binA := strings.Fields(c.must("container", "add", zoneID, "Bin A", "--type", "bin"))
	require.Len(t, binA, 2)
	assert.Equal(t, "STOKOSOR:"+binA[0], binA[1])
	bag1 := strings.Fields(c.must("container", "add", zoneID, "Bag 1", "--type", "bag", "--parent", binA[0]))
	itemID := c.must("item", "add", bag1[0], "Screwdriver", "--category", "tools", "--tag", "hand", "--value", "12.50")

	var shown struct {
		domain.Item
		Path string `json:"path"`
	}
	require.NoError(t, json.Unmarshal([]byte(c.must("item", "show", itemID)), &shown))
	assert.Equal(t, "Screwdriver", shown.Name)
	assert.Equal(t, []string{"hand"}, shown.Tags)
	assert.Equal(t, "Garage › Shelf Unit › Bin A › Bag 1", shown.Path)

	assert.Contains(t, c.must("scan", " "+binA[1]+" "), `"path": "Garage › Shelf Unit › Bin A"`)
	assert.Equal(t, itemID+"\tScrewdriver\tGarage › Shelf Unit › Bin A › Bag 1", c.must("search", "SCREW"))
	assert.Contains(t, c.must("container", "tree", zoneID), "Bin A [bin] (0 items)\n  Bag 1 [bag] (1 items)")

	_, err := c.run("container", "move", binA[0], "--into", bag1[0])
	assert.ErrorIs(t, err, domain.ErrInvalid)

	c.must("item", "update", itemID, "--notes", "flat head", "--category", "household")
	require.NoError(t, json.Unmarshal([]byte(c.must("item", "show", itemID)), &shown))
	assert.Equal(t, domain.CategoryHousehold, shown.Category)
	assert.Equal(t, "flat head", *shown.Notes)
	assert.Equal(t, []string{"hand"}, shown.Tags, "tags were not on the command line")
}

func TestBackupAndRestore(t *testing.T) {
	c := newCLI(t)

	placeID := c.must("place", "add", "Garage")
	zoneID := c.must("zone", "add", placeID, "Shelf Unit")
	bin := strings.Fields(c.must("container", "add", zoneID, "Bin A"))
	c.must("item", "add", bin[0], "Drill", "--category", "tools", "--brand", "Makita")

	backup := filepath.Join(t.TempDir(), snapshot.FileName(snapshot.KindJSON, fixedDay))
	assert.Equal(t, backup, c.must("export", "json", "-o", backup))

	c.must("container", "rm", bin[0])
	assert.Empty(t, c.must("search", "drill"))

	var counts snapshot.Counts
	require.NoError(t, json.Unmarshal([]byte(c.must("import", backup)), &counts))
	assert.Equal(t, snapshot.Counts{Places: 1, Zones: 1, Containers: 1, Items: 1}, counts)
	assert.Contains(t, c.must("search", "makita"), "Garage › Shelf Unit › Bin A")

	csvOut := c.must("export", "csv", "-o", "-")
	assert.True(t, strings.HasPrefix(csvOut, "\uFEFFName;Category;Location"))
	assert.Contains(t, csvOut, "Drill;tools;Garage › Shelf Unit › Bin A;Makita")
}

func TestImportRejectsBrokenBackup(t *testing.T) {
	c := newCLI(t)
	c.must("place", "add", "Garage")

	broken := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, writeFile(broken, `{"version": 1, "places": []}`))

	_, err := c.run("import", broken)
	assert.ErrorIs(t, err, snapshot.ErrInvalidDocument)
	assert.Contains(t, c.must("place", "list"), "Garage")
}

func TestValidationErrors(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("place", "add", "  ")
	assert.ErrorIs(t, err, domain.ErrInvalid)

	placeID := c.must("place", "add", "Garage")
	zoneID := c.must("zone", "add", placeID, "Shelf Unit")
	_, err = c.run("container", "add", zoneID, "Crate", "--type", "barrel")
	assert.ErrorIs(t, err, domain.ErrInvalid)

	_, err = c.run("item", "rm", "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = c.run("scan", "not-a-stokosor-code")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMigrate(t *testing.T) {
	c := newCLI(t)

	assert.Equal(t, "schema version 3", c.must("migrate"))
	assert.Equal(t, "schema version 3", c.must("migrate"))
}

func TestTagsAreKeptWhole(t *testing.T) {
	c := newCLI(t)

	placeID := c.must("place", "add", "Garage")
	zoneID := c.must("zone", "add", placeID, "Shelf Unit")
	bin := strings.Fields(c.must("container", "add", zoneID, "Bin A"))
	itemID := c.must("item", "add", bin[0], "Rope", "--tag", "outdoor", "--tag", "10 m, blue", "--tag", "outdoor")

	var shown domain.Item
	require.NoError(t, json.Unmarshal([]byte(c.must("item", "show", itemID)), &shown))
	assert.Equal(t, []string{"outdoor", "10 m, blue"}, shown.Tags)
}

func TestReplacedPhotoIsDeleted(t *testing.T) {
	c := newCLI(t)
	img := writePNG(t)

	placeID := c.must("place", "add", "Garage")
	c.must("place", "photo", placeID, img)
	c.must("place", "photo", placeID, img)
	assert.Equal(t, 1, c.photoFiles())

	var places []domain.Place
	require.NoError(t, json.Unmarshal([]byte(c.must("place", "list")), &places))
	require.Len(t, places, 1)
	require.NotNil(t, places[0].Photo)
	out := filepath.Join(t.TempDir(), "place.jpg")
	c.must("photo", *places[0].Photo, "-o", out)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte{0xFF, 0xD8}), "stored photos are JPEG")

	_, err = c.run("photo", "place_missing.jpg")
	assert.ErrorIs(t, err, photostore.ErrNotFound)

	zoneID := c.must("zone", "add", placeID, "Shelf Unit")
	bin := strings.Fields(c.must("container", "add", zoneID, "Bin A"))
	c.must("container", "photo", bin[0], img)
	c.must("container", "photo", bin[0], img)
	assert.Equal(t, 2, c.photoFiles())
}

func TestPhotoForUnknownEntityLeavesNoFile(t *testing.T) {
	c := newCLI(t)
	img := writePNG(t)

	for _, kind := range []string{"place", "container", "item"} {
		_, err := c.run(kind, "photo", "no-such-id", img)
		assert.ErrorIs(t, err, domain.ErrNotFound, kind)
	}
	assert.Zero(t, c.photoFiles())
}

func TestFailedSaveRemovesStoredPhoto(t *testing.T) {
	dir := t.TempDir()
	a := &app{
		cfg:    &config.Config{PhotoPath: filepath.Join(dir, "photos")},
		logger: slog.New(slog.DiscardHandler),
	}
	errSave := errors.New("row is gone")

	var saved string
	err := a.attachPhoto(context.Background(), "item", writePNG(t), func(key string) error {
		saved = key
		return errSave
	})
	require.ErrorIs(t, err, errSave)
	require.NotEmpty(t, saved)

	entries, err := os.ReadDir(a.cfg.PhotoPath)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeletesRemovePhotosOfEverythingRemoved(t *testing.T) {
	c := newCLI(t)
	img := writePNG(t)

	placeID := c.must("place", "add", "Garage")
	c.must("place", "photo", placeID, img)
	zoneID := c.must("zone", "add", placeID, "Shelf Unit")
	binA := strings.Fields(c.must("container", "add", zoneID, "Bin A"))
	bag1 := strings.Fields(c.must("container", "add", zoneID, "Bag 1", "--parent", binA[0]))
	c.must("container", "photo", bag1[0], img)
	drill := c.must("item", "add", bag1[0], "Drill")
	c.must("item", "photo", drill, img)
	c.must("item", "photo", drill, img)
	gloves := c.must("item", "add", binA[0], "Gloves")
	c.must("item", "photo", gloves, img)
	require.Equal(t, 6, c.photoFiles())

	c.must("item", "rm", gloves)
	assert.Equal(t, 5, c.photoFiles())

	c.must("container", "rm", binA[0])
	assert.Equal(t, 1, c.photoFiles(), "nested container and item photos")

	c.must("place", "rm", placeID)
	assert.Zero(t, c.photoFiles())
}

func TestZoneDeleteRemovesPhotos(t *testing.T) {
	c := newCLI(t)
	img := writePNG(t)

	placeID := c.must("place", "add", "Garage")
	zoneID := c.must("zone", "add", placeID, "Shelf Unit")
	bin := strings.Fields(c.must("container", "add", zoneID, "Bin A"))
	c.must("container", "photo", bin[0], img)
	require.Equal(t, 1, c.photoFiles())

	c.must("zone", "rm", zoneID)
	assert.Zero(t, c.photoFiles())
}
