package schema

import (
	"encoding/json"
	"fmt"

	"gridsheet/sheet"
)

// CurrentVersion is the version every in-memory File converts to and
// from. Bumped, and a new UpgradeVNtoVN+1 added, whenever a field is
// added to the format (spec.md §6).
const CurrentVersion = 3

// File is the top-level persisted document at CurrentVersion: one or more
// sheets plus the id of the sheet that was active when it was saved.
type File struct {
	Version    int         `json:"version"`
	Sheets     []SheetData `json:"sheets"`
	ActiveSheet string     `json:"active_sheet"`
}

// versionPeek reads only the version field, so Load can pick the right
// historical struct to unmarshal into before running it through the
// upgrade chain.
type versionPeek struct {
	Version int `json:"version"`
}

// FileV1 is the version 1 document shape: a single sheet, no concept of
// multiple tabs or an active-sheet pointer yet.
type FileV1 struct {
	Sheet SheetData `json:"sheet"`
}

// FileV2 is the version 2 shape: sheets became a list, but there was still
// no ActiveSheet pointer (the client always opened sheet index 0).
type FileV2 struct {
	Version int         `json:"version"`
	Sheets  []SheetData `json:"sheets"`
}

// UpgradeV1toV2 wraps the lone V1 sheet into a one-element list.
func UpgradeV1toV2(v1 FileV1) FileV2 {
	return FileV2{Version: 2, Sheets: []SheetData{v1.Sheet}}
}

// UpgradeV2toV3 adds the ActiveSheet pointer, defaulting to the first
// sheet (V2's implicit behavior) so a V2 file's meaning is preserved
// exactly.
func UpgradeV2toV3(v2 FileV2) File {
	active := ""
	if len(v2.Sheets) > 0 {
		active = v2.Sheets[0].ID
	}
	return File{Version: 3, Sheets: v2.Sheets, ActiveSheet: active}
}

// Save serializes f at CurrentVersion. f.Version is overwritten so a
// caller never has to remember to set it.
func Save(f *File) ([]byte, error) {
	f.Version = CurrentVersion
	return json.Marshal(f)
}

// Load deserializes data, written at any historical version, and upgrades
// it to CurrentVersion. This is the only entry point callers should use;
// nothing outside this package reads raw bytes off disk.
func Load(data []byte) (*File, error) {
	var peek versionPeek
	if err := json.Unmarshal(data, &peek); err != nil {
		return nil, fmt.Errorf("schema: malformed file header: %w", err)
	}

	switch {
	case peek.Version == 0:
		// V1 predates the version field entirely; its presence (or absence)
		// is how we tell V1 apart from V2+.
		var v1 FileV1
		if err := json.Unmarshal(data, &v1); err != nil {
			return nil, fmt.Errorf("schema: decoding v1 file: %w", err)
		}
		f := UpgradeV2toV3(UpgradeV1toV2(v1))
		return &f, nil
	case peek.Version == 2:
		var v2 FileV2
		if err := json.Unmarshal(data, &v2); err != nil {
			return nil, fmt.Errorf("schema: decoding v2 file: %w", err)
		}
		f := UpgradeV2toV3(v2)
		return &f, nil
	case peek.Version == CurrentVersion:
		var f File
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("schema: decoding v%d file: %w", CurrentVersion, err)
		}
		return &f, nil
	case peek.Version > CurrentVersion:
		return nil, fmt.Errorf("schema: file version %d is newer than this build supports (%d)", peek.Version, CurrentVersion)
	default:
		return nil, fmt.Errorf("schema: unrecognized file version %d", peek.Version)
	}
}

// ToSheets converts every SheetData in f into a live *sheet.Sheet, in
// order.
func ToSheets(f *File) ([]*sheet.Sheet, error) {
	out := make([]*sheet.Sheet, 0, len(f.Sheets))
	for _, d := range f.Sheets {
		sh, err := WireToSheet(d)
		if err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	return out, nil
}

// FromSheets builds a File at CurrentVersion from live sheets plus the id
// of whichever one is active.
func FromSheets(sheets []*sheet.Sheet, activeSheet string) *File {
	f := &File{Version: CurrentVersion, ActiveSheet: activeSheet}
	for _, sh := range sheets {
		f.Sheets = append(f.Sheets, SheetToWire(sh))
	}
	return f
}
