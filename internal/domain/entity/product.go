package entity

import (
	"time"

	"github.com/google/uuid"
)

// FileField names a product document slot. The slot name doubles as the file
// basename inside the product's blob folder, which is how download lookups
// recover the owning field from a blob key.
type FileField string

const (
	FileFieldImage FileField = "image"
	FileFieldCOA   FileField = "coa"
	FileFieldMSDS  FileField = "msds"
	FileFieldCEP   FileField = "cep"
	FileFieldQOS   FileField = "qos"
)

// FileFields lists every document slot a product carries.
var FileFields = []FileField{FileFieldImage, FileFieldCOA, FileFieldMSDS, FileFieldCEP, FileFieldQOS}

// IsValid checks if the FileField is a known slot.
func (f FileField) IsValid() bool {
	switch f {
	case FileFieldImage, FileFieldCOA, FileFieldMSDS, FileFieldCEP, FileFieldQOS:
		return true
	default:
		return false
	}
}

// FileRefs holds the blob key for each document slot, empty when absent.
type FileRefs struct {
	Image string
	COA   string
	MSDS  string
	CEP   string
	QOS   string
}

// Get returns the key stored in the named slot.
func (f *FileRefs) Get(field FileField) string {
	switch field {
	case FileFieldImage:
		return f.Image
	case FileFieldCOA:
		return f.COA
	case FileFieldMSDS:
		return f.MSDS
	case FileFieldCEP:
		return f.CEP
	case FileFieldQOS:
		return f.QOS
	default:
		return ""
	}
}

// Set stores key into the named slot.
func (f *FileRefs) Set(field FileField, key string) {
	switch field {
	case FileFieldImage:
		f.Image = key
	case FileFieldCOA:
		f.COA = key
	case FileFieldMSDS:
		f.MSDS = key
	case FileFieldCEP:
		f.CEP = key
	case FileFieldQOS:
		f.QOS = key
	}
}

// Product is a catalog entry owned by exactly one Manufacturer. Traders is
// the product-side half of the trader relation, mirrored by Trader.Products.
type Product struct {
	ID             uuid.UUID
	Folder         string // Blob folder the product's documents live under.
	Title          string
	Description    string
	Price          string
	Category       string
	Files          FileRefs
	Impurities     string
	RefStandards   string
	DMF            []string
	Pharmacopoeias []string
	ManufacturerID uuid.UUID
	Traders        RefSet // Mirror of Trader.Products.
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
