package xlbind

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed styles/default.yml
var defaultStyleYAML []byte

// StyleConfig is the YAML form of a sheet layout.
type StyleConfig struct {
	Global   GlobalConfig   `yaml:"global"`
	TitleRow RowStyleConfig `yaml:"titleRow"`
	BodyRow  RowStyleConfig `yaml:"bodyRow"`
	FootRow  RowStyleConfig `yaml:"footRow"`
}

// GlobalConfig holds sheet-wide settings.
type GlobalConfig struct {
	CellWidth float64 `yaml:"cellWidth"`
}

// RowStyleConfig is one row style as written in YAML. Colours are palette
// names or #RRGGBB; format is a format name or a raw format code.
type RowStyleConfig struct {
	StartIndex      int     `yaml:"startIndex"`
	Height          float64 `yaml:"height"`
	FontName        string  `yaml:"fontName"`
	FontSize        float64 `yaml:"fontSize"`
	FontColor       string  `yaml:"fontColor"`
	Bold            bool    `yaml:"bold"`
	WrapText        bool    `yaml:"wrapText"`
	BackgroundColor string  `yaml:"backgroundColor"`
	Align           string  `yaml:"align"`
	VerticalAlign   string  `yaml:"verticalAlign"`
	Format          string  `yaml:"format"`
}

// DefaultStyleConfig returns the built-in configuration.
func DefaultStyleConfig() *StyleConfig {
	cfg := &StyleConfig{}
	if err := decodeStyleConfig(bytes.NewReader(defaultStyleYAML), cfg); err != nil {
		panic(fmt.Sprintf("xlbind: embedded default style: %v", err))
	}
	return cfg
}

// LoadStyleConfig reads a YAML style file. Keys it does not set keep their
// default values.
func LoadStyleConfig(path string) (*StyleConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open style config %q: %w", path, err)
	}
	defer f.Close()
	cfg, err := ParseStyleConfig(f)
	if err != nil {
		return nil, fmt.Errorf("style config %q: %w", path, err)
	}
	return cfg, nil
}

// ParseStyleConfig decodes YAML over the default configuration. Unknown
// keys are rejected.
func ParseStyleConfig(r io.Reader) (*StyleConfig, error) {
	cfg := DefaultStyleConfig()
	if err := decodeStyleConfig(r, cfg); err != nil {
		return nil, err
	}
	if _, err := cfg.Layout(""); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeStyleConfig(r io.Reader, cfg *StyleConfig) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode style config: %w", err)
	}
	return nil
}

// Layout resolves the configuration into a sheet layout named name.
func (c *StyleConfig) Layout(name string) (*SheetLayout, error) {
	title, err := c.TitleRow.rowStyle()
	if err != nil {
		return nil, fmt.Errorf("titleRow: %w", err)
	}
	body, err := c.BodyRow.rowStyle()
	if err != nil {
		return nil, fmt.Errorf("bodyRow: %w", err)
	}
	foot, err := c.FootRow.rowStyle()
	if err != nil {
		return nil, fmt.Errorf("footRow: %w", err)
	}
	l := &SheetLayout{
		Name:      name,
		CellWidth: c.Global.CellWidth,
		Title:     title,
		Body:      body,
		Footer:    foot,
	}
	if err := l.validate(); err != nil {
		return nil, err
	}
	return l, nil
}

func (rc RowStyleConfig) rowStyle() (RowStyle, error) {
	align, err := ParseAlign(rc.Align)
	if err != nil {
		return RowStyle{}, err
	}
	valign, err := ParseAlign(rc.VerticalAlign)
	if err != nil {
		return RowStyle{}, err
	}
	if valign != AlignDefault && !valign.IsVertical() {
		return RowStyle{}, fmt.Errorf("verticalAlign %q is not a vertical alignment", rc.VerticalAlign)
	}
	s := RowStyle{
		Index:           rc.StartIndex,
		Height:          rc.Height,
		Align:           align,
		VerticalAlign:   valign,
		WrapText:        rc.WrapText,
		FontName:        rc.FontName,
		FontSize:        rc.FontSize,
		FontColor:       rc.FontColor,
		Bold:            rc.Bold,
		Border:          "thin",
		BorderColor:     "GREY_25_PERCENT",
		BackgroundColor: rc.BackgroundColor,
		Format:          resolveFormat(rc.Format),
	}
	if _, err := s.ExcelizeStyle(); err != nil {
		return RowStyle{}, err
	}
	return s, nil
}
