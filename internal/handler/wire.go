package handler

import (
	"github.com/google/wire"
)

// Handlers aggregates all HTTP handlers for router registration.
type Handlers struct {
	Photo  *PhotoHandler
	Picker *PickerHandler
}

// ProvideHandlers creates the Handlers struct.
func ProvideHandlers(photoHandler *PhotoHandler, pickerHandler *PickerHandler) *Handlers {
	return &Handlers{
		Photo:  photoHandler,
		Picker: pickerHandler,
	}
}

// ProviderSet is the handler layer provider set.
var ProviderSet = wire.NewSet(
	NewPhotoHandler,
	NewPickerHandler,
	ProvideHandlers,
)
