package rundown

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrEmptySeed = errors.New("rundown seed has no items")

// Seed is the on-disk shape of a rundown loaded at startup.
//
//	autoAdvance: true
//	showViewerTitle: true
//	items:
//	  - title: Walk-in
//	    durationSec: 300
//	  - title: Keynote
//	    startTime: "9:05 AM"
//	    durationSec: 1800
//	    warnPercent: 0.25
type Seed struct {
	AutoAdvance        bool     `yaml:"autoAdvance"`
	ShowViewerTitle    bool     `yaml:"showViewerTitle"`
	ShowViewerProgress bool     `yaml:"showViewerProgress"`
	Items              []Fields `yaml:"items"`
}

func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read rundown seed: %w", err)
	}
	return Parse(data)
}

// Parse builds a fresh document from YAML. Items go through AddItem, so the
// same defaults and clamping apply as for items added by a controller.
func Parse(data []byte) (Document, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return Document{}, fmt.Errorf("parse rundown seed: %w", err)
	}
	if len(seed.Items) == 0 {
		return Document{}, ErrEmptySeed
	}

	doc := NewDocument()
	doc.AutoAdvance = seed.AutoAdvance
	doc.ShowViewerTitle = seed.ShowViewerTitle
	doc.ShowViewerProgress = seed.ShowViewerProgress
	for _, f := range seed.Items {
		doc = AddItem(doc, f)
	}
	return doc, nil
}
