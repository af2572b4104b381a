// Package project provides JSON persistence for pack projects: the parcel
// batch, the fleet, the default bin, and the pack settings.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/loadwise/vanpack/internal/engine"
	"github.com/loadwise/vanpack/internal/model"
	"github.com/loadwise/vanpack/internal/space"
)

// ItemRecord is the serialized form of a parcel. Placement state is not
// persisted; a loaded project is re-packed.
type ItemRecord struct {
	ID       string          `json:"id,omitempty"`
	Name     string          `json:"name"`
	Width    decimal.Decimal `json:"width"`
	Height   decimal.Decimal `json:"height"`
	Depth    decimal.Decimal `json:"depth"`
	Weight   decimal.Decimal `json:"weight"`
	Priority int             `json:"priority"`
}

// BinRecord is the serialized form of a bin model.
type BinRecord struct {
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name"`
	Width     decimal.Decimal `json:"width"`
	Height    decimal.Decimal `json:"height"`
	Depth     decimal.Decimal `json:"depth"`
	MaxWeight decimal.Decimal `json:"max_weight"`
}

// Project ties everything together for save/load.
type Project struct {
	Name       string          `json:"name"`
	Items      []ItemRecord    `json:"items"`
	Fleet      []BinRecord     `json:"fleet"`
	DefaultBin *BinRecord      `json:"default_bin,omitempty"`
	Settings   engine.Settings `json:"settings"`
}

// NewProject returns an empty project with default settings.
func NewProject() Project {
	return Project{
		Name:     "Untitled",
		Items:    []ItemRecord{},
		Fleet:    []BinRecord{},
		Settings: engine.DefaultSettings(),
	}
}

func itemRecord(it *model.Item) ItemRecord {
	orig := it.OriginalDimensions()
	return ItemRecord{
		ID:       it.ID,
		Name:     it.Name,
		Width:    orig.X,
		Height:   orig.Y,
		Depth:    orig.Z,
		Weight:   it.Weight,
		Priority: it.Priority,
	}
}

func binRecord(m model.BinModel) BinRecord {
	return BinRecord{
		ID:        m.ID,
		Name:      m.Name,
		Width:     m.Size.X,
		Height:    m.Size.Y,
		Depth:     m.Size.Z,
		MaxWeight: m.MaxWeight,
	}
}

func (r ItemRecord) item() *model.Item {
	it := model.NewItem(r.Name, space.NewVector3(r.Width, r.Height, r.Depth), r.Weight, r.Priority)
	if r.ID != "" {
		it.ID = r.ID
	}
	return it
}

func (r BinRecord) binModel() model.BinModel {
	m := model.NewBinModel(r.Name, space.NewVector3(r.Width, r.Height, r.Depth), r.MaxWeight)
	if r.ID != "" {
		m.ID = r.ID
	}
	return m
}

// FromPacker captures a packer's batch and fleet into a project.
func FromPacker(name string, p *engine.Packer, settings engine.Settings) Project {
	prj := Project{Name: name, Settings: settings, Items: []ItemRecord{}, Fleet: []BinRecord{}}
	for _, it := range p.Items {
		prj.Items = append(prj.Items, itemRecord(it))
	}
	for _, m := range p.Fleet {
		prj.Fleet = append(prj.Fleet, binRecord(m))
	}
	if p.DefaultBin != nil {
		r := binRecord(*p.DefaultBin)
		prj.DefaultBin = &r
	}
	return prj
}

// Packer materializes the project into a fresh packer ready to Pack.
func (prj Project) Packer() *engine.Packer {
	p := engine.NewPacker()
	for _, r := range prj.Items {
		p.AddBatch([]*model.Item{r.item()})
	}
	for _, r := range prj.Fleet {
		p.AddBin(r.binModel())
	}
	if prj.DefaultBin != nil {
		p.SetDefaultBin(prj.DefaultBin.binModel())
	}
	return p
}

// Save writes the project to a JSON file, creating parent directories as
// needed.
func Save(path string, prj Project) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(prj, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads a project from a JSON file.
func Load(path string) (Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Project{}, err
	}
	var prj Project
	if err := json.Unmarshal(data, &prj); err != nil {
		return Project{}, fmt.Errorf("cannot parse project file: %w", err)
	}
	if prj.Settings.Strategy == "" {
		prj.Settings = engine.DefaultSettings()
	}
	return prj, nil
}
