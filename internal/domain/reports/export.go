package reports

import (
	"context"
	"fmt"

	"livestock-traceability/internal/domain/cattle"
	"livestock-traceability/internal/domain/events"
	"livestock-traceability/internal/domain/owners"

	"github.com/xuri/excelize/v2"
)

const dateLayout = "2006-01-02"

// ExportWorkbook arma un libro XLSX con una hoja por entidad, para descarga
// completa de los datos del hato.
func (s *Service) ExportWorkbook(ctx context.Context) (*excelize.File, error) {
	ownerRows, err := s.owners.List(ctx)
	if err != nil {
		return nil, err
	}
	herd, err := s.cattle.List(ctx, cattle.ListFilter{})
	if err != nil {
		return nil, err
	}
	eventRows, err := s.events.List(ctx, events.ListFilter{})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()

	if err := writeOwnersSheet(f, ownerRows); err != nil {
		return nil, err
	}
	if err := writeCattleSheet(f, herd); err != nil {
		return nil, err
	}
	if err := writeEventsSheet(f, eventRows); err != nil {
		return nil, err
	}

	// La hoja por defecto "Sheet1" sobra una vez creadas las nuestras.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	return f, nil
}

func writeOwnersSheet(f *excelize.File, rows []owners.Owner) error {
	const sheet = "Propietarios"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []any{"ID", "Tipo", "Nombre", "Apellidos", "Tipo Documento", "Numero Documento", "Telefono", "Email", "Ciudad", "Departamento"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}

	for i, o := range rows {
		row := []any{o.ID, string(o.Kind), o.Name, o.Surname, string(o.DocumentKind), o.DocumentNumber, o.Phone, o.Email, o.City, o.Region}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func writeCattleSheet(f *excelize.File, rows []cattle.Cattle) error {
	const sheet = "Bovinos"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []any{"ID", "Codigo", "Nombre", "Raza", "Sexo", "Fecha Nacimiento", "Estado", "Peso Actual", "Propietario", "Ubicacion"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}

	for i, c := range rows {
		birth := ""
		if c.BirthDate != nil {
			birth = c.BirthDate.Format(dateLayout)
		}
		weight := any("")
		if c.CurrentWeight != nil {
			weight = *c.CurrentWeight
		}
		row := []any{c.ID, c.Code, c.Name, c.Breed, string(c.Sex), birth, string(c.Status), weight, c.OwnerName, c.Location}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func writeEventsSheet(f *excelize.File, rows []events.Event) error {
	const sheet = "Eventos"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []any{"ID", "Bovino ID", "Tipo", "Fecha", "Descripcion", "Peso Kg", "Litros", "Turno", "Costo", "Comprador", "Destino"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}

	optional := func(v *float64) any {
		if v == nil {
			return ""
		}
		return *v
	}

	for i, e := range rows {
		row := []any{e.ID, e.CattleID, string(e.Kind), e.Date.Format(dateLayout), e.Description, optional(e.WeightKg), optional(e.Liters), string(e.Shift), optional(e.Cost), e.Buyer, e.Destination}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}
