package ledger

import (
	"context"
	"fmt"

	"stockflow/internal/core/apperror"
	"stockflow/internal/core/id"
	"stockflow/internal/core/types"
)

// ReturnLineInput is one product being sent back against an original entry.
type ReturnLineInput struct {
	ProductID id.ID
	Quantity  int64
}

// ReturnInput is a request to reverse part of a sales or purchases entry.
type ReturnInput struct {
	Lines []ReturnLineInput
	Note  string
}

// ProcessReturn creates a return entry against an original sales or
// purchases entry.
//
// Quantities are validated against what remains returnable: the original
// line quantity minus everything already returned through earlier return
// entries. Duplicate lines for one product count against that remainder
// cumulatively. Prices always come from the original entry's snapshots,
// never from the current catalog, so the refund matches what was actually
// charged. The return's balance is the sum of price x quantity over its
// lines (selling price for sales, cost price for purchases); paid is zero.
//
// The original lookup, the prior-returns fold and the write share one
// store transaction, so the remaining-quantity check and the insert see
// the same snapshot.
func (s *Service) ProcessReturn(ctx context.Context, originalID id.ID, in ReturnInput) (*Entry, error) {
	if len(in.Lines) == 0 {
		return nil, apperror.NewValidation("at least one product is required").
			WithDetail("field", "products")
	}

	var entry *Entry
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		original, err := s.repo.GetByID(ctx, originalID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("Original transaction", originalID.String())
			}
			return fmt.Errorf("load original transaction: %w", err)
		}

		returnType, ok := original.Type.ReturnType()
		if !ok {
			return apperror.NewValidation("returns can only be made for sales or purchases transactions").
				WithDetail("transactionType", string(original.Type))
		}

		alreadyReturned, err := s.repo.ReturnedQuantities(ctx, original.ID)
		if err != nil {
			return fmt.Errorf("load previous returns: %w", err)
		}

		originalLines := make(map[id.ID]Line, len(original.Lines))
		for _, l := range original.Lines {
			originalLines[l.ProductID] = l
		}

		// requested accumulates per product across the whole request, the
		// same way Create aggregates demand before the stock check, so
		// duplicate lines cannot each pass the remainder bound on their own.
		requested := make(map[id.ID]int64, len(in.Lines))
		lines := make([]Line, 0, len(in.Lines))
		balance := types.Zero()
		for _, ret := range in.Lines {
			orig, ok := originalLines[ret.ProductID]
			if !ok {
				return apperror.NewValidation(
					fmt.Sprintf("product %s was not part of the original transaction", ret.ProductID)).
					WithDetail("productId", ret.ProductID.String())
			}
			if ret.Quantity < 1 {
				return apperror.NewValidation("return quantity must be at least 1").
					WithDetail("productId", ret.ProductID.String())
			}

			requested[ret.ProductID] += ret.Quantity
			remaining := orig.Quantity - alreadyReturned[ret.ProductID]
			if requested[ret.ProductID] > remaining {
				name := orig.ProductName
				if name == "" {
					name = ret.ProductID.String()
				}
				return apperror.NewValidation(
					fmt.Sprintf("return quantity for product %s exceeds remaining quantity (%d)", name, remaining)).
					WithDetail("productId", ret.ProductID.String()).
					WithDetail("originalQuantity", orig.Quantity).
					WithDetail("alreadyReturned", alreadyReturned[ret.ProductID]).
					WithDetail("remainingQuantity", remaining).
					WithDetail("requestedQuantity", requested[ret.ProductID])
			}

			price := orig.CostPrice
			if original.Type == TypeSales {
				price = orig.SellingPrice
			}
			balance = balance.Add(price.Mul(types.NewMoneyFromInt(ret.Quantity)))

			lines = append(lines, Line{
				ProductID:    ret.ProductID,
				Quantity:     ret.Quantity,
				CostPrice:    orig.CostPrice,
				SellingPrice: orig.SellingPrice,
			})
		}

		note := in.Note
		if note == "" {
			ref := original.SerialNumber
			if ref == "" {
				ref = original.ID.String()
			}
			note = fmt.Sprintf("Return for transaction %s", ref)
		}

		entry = NewEntry(returnType, original.PartnerID, lines, balance, types.Zero(), note)
		entry.OriginalID = &original.ID
		if err := entry.Validate(ctx); err != nil {
			return err
		}

		entry.SerialNumber, err = s.serials.Next(ctx, s.repo.SerialExists)
		if err != nil {
			return fmt.Errorf("generate serial number: %w", err)
		}

		if err := s.repo.Create(ctx, entry); err != nil {
			return fmt.Errorf("create return entry: %w", err)
		}
		if _, err := s.balances.Recalculate(ctx, entry.PartnerID); err != nil {
			return fmt.Errorf("refresh partner balances: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, entry.ID, "return", map[string]any{
		"originalTransactionId": originalID.String(),
		"transactionType":       string(entry.Type),
		"balance":               entry.Balance,
	})

	return s.reload(ctx, entry)
}
