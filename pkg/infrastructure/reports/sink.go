package reports

import "github.com/ofarias/plantmrp/pkg/application/dto"

// Sink receives finished report tables. Implementations decide the medium.
type Sink interface {
	Write(table *dto.Table) error
}
