package inventory

import (
	"context"

	"github.com/jhoicas/electro-api/internal/domain"
	"github.com/jhoicas/electro-api/internal/domain/entity"
	domaininv "github.com/jhoicas/electro-api/internal/domain/inventory"
	"github.com/jhoicas/electro-api/internal/domain/repository"
	"github.com/jhoicas/electro-api/pkg/logger"
)

// AvailabilityUseCase sirve las lecturas de disponibilidad para el catálogo y
// el panel de inventario. Son snapshots consistentes pero sin la sección
// crítica del guard: pueden quedar viejos al momento de un checkout, y eso es
// intencional — solo el commit del checkout exige linealización.
type AvailabilityUseCase struct {
	movs     repository.MovementRepository
	variants repository.VariantRepository
	log      *logger.Logger
}

// NewAvailabilityUseCase construye el caso de uso.
func NewAvailabilityUseCase(movs repository.MovementRepository, variants repository.VariantRepository, log *logger.Logger) *AvailabilityUseCase {
	return &AvailabilityUseCase{movs: movs, variants: variants, log: log}
}

// VariantAvailability deriva los cuatro índices de una variante. Si la
// existencia física quedó negativa se alerta por log (problema de
// contabilidad upstream) pero la consulta responde igual: la lectura de
// catálogo no debe caerse por un dato por sanear.
func (uc *AvailabilityUseCase) VariantAvailability(ctx context.Context, variantID string) (domaininv.Availability, error) {
	v, err := uc.variants.GetByID(variantID)
	if err != nil {
		return domaininv.Availability{}, err
	}
	if v == nil {
		return domaininv.Availability{}, domain.ErrNotFound
	}
	snapshot, err := uc.movs.ListByVariant(variantID)
	if err != nil {
		return domaininv.Availability{}, err
	}
	avail := domaininv.Calculate(snapshot)
	if err := domaininv.CheckIntegrity(variantID, avail); err != nil {
		uc.log.Error().Err(err).Str("variant_id", variantID).Msg("existencia física negativa detectada")
	}
	return avail, nil
}

// ProductAvailability agrega las variantes de un producto: suma simple por
// índice, sin sustitución entre variantes.
func (uc *AvailabilityUseCase) ProductAvailability(ctx context.Context, productID string) (domaininv.Availability, map[string]domaininv.Availability, error) {
	variants, err := uc.variants.ListByProduct(productID)
	if err != nil {
		return domaininv.Availability{}, nil, err
	}
	var total domaininv.Availability
	perVariant := make(map[string]domaininv.Availability, len(variants))
	for _, v := range variants {
		snapshot, err := uc.movs.ListByVariant(v.ID)
		if err != nil {
			return domaininv.Availability{}, nil, err
		}
		avail := domaininv.Calculate(snapshot)
		if err := domaininv.CheckIntegrity(v.ID, avail); err != nil {
			uc.log.Error().Err(err).Str("variant_id", v.ID).Msg("existencia física negativa detectada")
		}
		perVariant[v.ID] = avail
		total = total.Add(avail)
	}
	return total, perVariant, nil
}

// VariantMovements lista la partición completa de la variante (vista de
// auditoría del libro).
func (uc *AvailabilityUseCase) VariantMovements(ctx context.Context, variantID string) ([]entity.Movement, error) {
	v, err := uc.variants.GetByID(variantID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	return uc.movs.ListByVariant(variantID)
}
