package labels

import (
	"context"

	"github.com/google/uuid"
	"github.com/stitchpos/backend/internal/domain/catalog"
	"github.com/stitchpos/backend/internal/domain/labels"
	"github.com/stitchpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	barcodeModuleWidth = 2
	barcodeBarHeight   = 60
)

// LabelRenderer turns a sheet of labels into a printable document
type LabelRenderer interface {
	Render(ctx context.Context, sheet []labels.Label) ([]byte, error)
}

// LabelService builds printable price tags for stock groups. Variants get
// an EAN-13 barcode allocated on first use and keep it for life.
type LabelService struct {
	stockRepo     catalog.StockGroupRepository
	sequences     labels.BarcodeSequenceRepository
	renderer      LabelRenderer
	companyPrefix string
	logger        *zap.Logger
}

func NewLabelService(
	stockRepo catalog.StockGroupRepository,
	sequences labels.BarcodeSequenceRepository,
	renderer LabelRenderer,
	companyPrefix string,
	logger *zap.Logger,
) *LabelService {
	return &LabelService{
		stockRepo:     stockRepo,
		sequences:     sequences,
		renderer:      renderer,
		companyPrefix: companyPrefix,
		logger:        logger,
	}
}

// EnsureBarcodes allocates barcodes for every variant of the group that
// does not have one yet, then persists the group
func (s *LabelService) EnsureBarcodes(ctx context.Context, stockID, shopID uuid.UUID) (*catalog.StockGroup, error) {
	group, err := s.stockRepo.FindByIDForShop(ctx, stockID, shopID)
	if err != nil {
		return nil, err
	}

	assigned := 0
	for i := range group.ColorVariants {
		v := &group.ColorVariants[i]
		if v.Barcode != "" {
			continue
		}
		seq, err := s.sequences.Next(ctx, shopID)
		if err != nil {
			return nil, err
		}
		code, err := labels.AllocateEAN13(s.companyPrefix, seq)
		if err != nil {
			return nil, err
		}
		v.Barcode = code
		assigned++
	}

	if assigned > 0 {
		if err := s.stockRepo.SaveWithLock(ctx, group); err != nil {
			return nil, err
		}
		s.logger.Info("allocated barcodes",
			zap.String("group", group.GroupName), zap.Int("count", assigned))
	}
	return group, nil
}

// BuildSheet resolves a print request into rendered labels with inline
// barcode SVGs
func (s *LabelService) BuildSheet(ctx context.Context, shopID uuid.UUID, req PrintRequest) (*SheetResponse, error) {
	group, err := s.EnsureBarcodes(ctx, req.StockID, shopID)
	if err != nil {
		return nil, err
	}

	out := make([]LabelResponse, 0, len(req.Lines))
	for _, line := range req.Lines {
		variant := group.GetVariant(line.Color)
		if variant == nil {
			return nil, shared.NewDomainError("INVALID_LABEL", "color not found: "+line.Color)
		}
		if group.CheckStock(line.Color, line.Size) == 0 {
			s.logger.Warn("printing label for out-of-stock bucket",
				zap.String("group", group.GroupName),
				zap.String("color", line.Color), zap.String("size", line.Size))
		}

		label, err := labels.NewLabel(group.ID, group.GroupName, variant.Color, line.Size,
			group.UnitPrice, group.Currency.String(), variant.Barcode)
		if err != nil {
			return nil, err
		}
		svg, err := label.BarcodeSVG(barcodeModuleWidth, barcodeBarHeight)
		if err != nil {
			return nil, err
		}

		copies := line.Copies
		if copies < 1 {
			copies = 1
		}
		out = append(out, LabelResponse{
			StockID:   label.StockID,
			GroupName: label.GroupName,
			Color:     label.Color,
			Size:      label.Size,
			Price:     label.Price,
			Currency:  label.Currency,
			Barcode:   label.Barcode,
			SVG:       svg,
			Copies:    copies,
		})
	}
	return &SheetResponse{Labels: out}, nil
}

// RenderPDF builds the sheet and hands it to the renderer
func (s *LabelService) RenderPDF(ctx context.Context, shopID uuid.UUID, req PrintRequest) ([]byte, error) {
	sheet, err := s.BuildSheet(ctx, shopID, req)
	if err != nil {
		return nil, err
	}

	flat := make([]labels.Label, 0, len(sheet.Labels))
	for _, l := range sheet.Labels {
		for i := 0; i < l.Copies; i++ {
			flat = append(flat, labels.Label{
				StockID:   l.StockID,
				GroupName: l.GroupName,
				Color:     l.Color,
				Size:      l.Size,
				Price:     l.Price,
				Currency:  l.Currency,
				Barcode:   l.Barcode,
			})
		}
	}
	return s.renderer.Render(ctx, flat)
}
