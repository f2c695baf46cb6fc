// Package factory builds analysis units and storage backends from
// configuration.
package factory

import (
	"fmt"
	"time"

	"github.com/algamel98/textile-qc-app/internal/analyzer"
	"github.com/algamel98/textile-qc-app/internal/config"
	"github.com/algamel98/textile-qc-app/internal/storage"
)

// FetcherType selects an image source backend.
type FetcherType string

const (
	// HTTPFetcher pulls images from URLs.
	HTTPFetcher FetcherType = "http"
	// LocalFetcher reads images from the filesystem.
	LocalFetcher FetcherType = "local"
)

// UnitSet holds the analysis units enabled by one settings set. A nil
// entry means the unit is disabled and its score defaults to perfect.
type UnitSet struct {
	Color      analyzer.ColorAnalyzer
	Pattern    analyzer.PatternAnalyzer
	Repetition analyzer.RepetitionAnalyzer
}

// NewUnitSet builds the unit implementations that the settings enable.
func NewUnitSet(settings config.QCSettings) UnitSet {
	var set UnitSet
	if settings.EnableColorUnit {
		set.Color = analyzer.NewColorUnit(settings)
	}
	if settings.EnablePatternUnit {
		set.Pattern = analyzer.NewPatternUnit(settings)
	}
	if settings.EnablePatternRepetition {
		set.Repetition = analyzer.NewRepetitionUnit(settings)
	}
	return set
}

// StorageFactory creates image fetchers.
type StorageFactory interface {
	CreateFetcher(fetcherType FetcherType, timeout time.Duration) (storage.ImageFetcher, error)
}

type storageFactory struct{}

// NewStorageFactory creates a storage factory.
func NewStorageFactory() StorageFactory {
	return &storageFactory{}
}

func (f *storageFactory) CreateFetcher(fetcherType FetcherType, timeout time.Duration) (storage.ImageFetcher, error) {
	switch fetcherType {
	case HTTPFetcher:
		return storage.NewHTTPImageFetcher(timeout), nil
	case LocalFetcher:
		return storage.NewLocalImageFetcher(), nil
	default:
		return nil, fmt.Errorf("unsupported fetcher type: %s", fetcherType)
	}
}
