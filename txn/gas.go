package txn

import (
	"context"

	"github.com/robmcl4/pysui"
	"github.com/robmcl4/pysui/types"
)

// gasConfig is the caller-supplied side of gas resolution, set via
// options before finalization.
type gasConfig struct {
	// payment names an explicit gas coin; nil selects from the
	// sender's coins.
	payment *types.Address
	// price overrides the reference gas price when non-zero.
	price uint64
	// budget is the caller's floor; the resolved budget is never
	// below the dry-run cost.
	budget uint64
	// merge allows combining several owned coins when no single one
	// covers the budget.
	merge bool
}

// resolveGas selects and validates the fee payment for the rendered
// kind. Runs exactly once, immediately before final assembly: the
// budget comes from a dry-run of the kind, floored by the caller's
// budget, and the payment is either the explicitly named coin or a
// selection from the sender's coins.
func (t *Transaction) resolveGas(ctx context.Context, kind types.TransactionKind) (types.GasData, error) {
	price := t.gas.price
	if price == 0 {
		p, err := t.svc.ReferenceGasPrice(ctx)
		if err != nil {
			return types.GasData{}, &pysui.ResolutionError{Reason: "unable to fetch reference gas price", Err: err}
		}
		price = p
	}

	inspection, err := t.inspect(ctx, kind)
	if err != nil {
		return types.GasData{}, err
	}
	budget := max(inspection.Effects.GasUsed.Total(), t.gas.budget)
	t.log.Debug().Uint64("budget", budget).Uint64("price", price).Msg("gas resolved")

	gd := types.GasData{Owner: t.sender, Price: price, Budget: budget}
	if t.gas.payment != nil {
		ref, owner, err := t.explicitPayment(ctx, *t.gas.payment, budget)
		if err != nil {
			return types.GasData{}, err
		}
		gd.Payment = []types.ObjectRef{ref}
		gd.Owner = owner
		return gd, nil
	}
	payment, err := t.inferredPayment(ctx, budget)
	if err != nil {
		return types.GasData{}, err
	}
	gd.Payment = payment
	return gd, nil
}

// explicitPayment validates the caller-named gas coin: it must not
// already be a transaction input, and its balance must cover the
// budget.
func (t *Transaction) explicitPayment(ctx context.Context, id types.Address, budget uint64) (types.ObjectRef, types.Address, error) {
	if t.builder.hasObject(id) {
		return types.ObjectRef{}, types.Address{}, &pysui.GasError{
			Reason: "gas object is already used as a transaction input",
			Object: id,
		}
	}
	rec, err := t.svc.GetObject(ctx, id)
	if err != nil {
		return types.ObjectRef{}, types.Address{}, &pysui.ResolutionError{
			Reason:  "unable to fetch gas object",
			Missing: []types.Address{id},
			Err:     err,
		}
	}
	if rec.Balance < budget {
		return types.ObjectRef{}, types.Address{}, &pysui.GasError{
			Reason: "insufficient gas balance",
			Object: id,
		}
	}
	owner := rec.Owner.Address
	if owner.IsZero() {
		owner = t.sender
	}
	return rec.Ref(), owner, nil
}

// inferredPayment selects gas coins from the sender's holdings. Coins
// already consumed as transaction inputs are skipped. With merge
// enabled, several coins may be combined to reach the budget;
// otherwise a single coin must cover it.
func (t *Transaction) inferredPayment(ctx context.Context, budget uint64) ([]types.ObjectRef, error) {
	coins, err := t.svc.GetCoins(ctx, t.sender)
	if err != nil {
		return nil, &pysui.ResolutionError{Reason: "unable to list gas coins", Err: err}
	}
	var available []types.ObjectRecord
	for _, c := range coins {
		if !t.builder.hasObject(c.ObjectID) {
			available = append(available, c)
		}
	}
	for _, c := range available {
		if c.Balance >= budget {
			return []types.ObjectRef{c.Ref()}, nil
		}
	}
	if t.gas.merge {
		var payment []types.ObjectRef
		var total uint64
		for _, c := range available {
			payment = append(payment, c.Ref())
			total += c.Balance
			if total >= budget {
				return payment, nil
			}
		}
	}
	return nil, &pysui.GasError{Reason: "no gas coin covers the required budget"}
}
