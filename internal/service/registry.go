package service

import (
	"fmt"

	"stock_orders/internal/domain"
)

type handlerKey struct {
	action domain.OrderAction
	side   domain.OrderSide
}

// HandlerRegistry maps every (action, side) pair to its handler. The
// constructor fails fast when a pair is missing so a wiring mistake
// surfaces at startup instead of on the first request.
type HandlerRegistry struct {
	handlers map[handlerKey]actionHandler
}

func NewHandlerRegistry() (*HandlerRegistry, error) {
	all := []actionHandler{
		createBuyHandler{},
		createSellHandler{},
		cancelBuyHandler{},
		cancelSellHandler{},
		matchBuyHandler{},
		matchSellHandler{},
	}

	handlers := make(map[handlerKey]actionHandler, len(all))
	for _, h := range all {
		key := handlerKey{action: h.action(), side: h.side()}
		if _, dup := handlers[key]; dup {
			return nil, fmt.Errorf("duplicate handler for action=%s side=%s", key.action, key.side)
		}
		handlers[key] = h
	}

	for _, action := range []domain.OrderAction{domain.ActionCreate, domain.ActionCancel, domain.ActionMatch} {
		for _, side := range []domain.OrderSide{domain.SideBuy, domain.SideSell} {
			if _, ok := handlers[handlerKey{action: action, side: side}]; !ok {
				return nil, fmt.Errorf("missing handler for action=%s side=%s", action, side)
			}
		}
	}

	return &HandlerRegistry{handlers: handlers}, nil
}

func (r *HandlerRegistry) get(action domain.OrderAction, side domain.OrderSide) (actionHandler, error) {
	h, ok := r.handlers[handlerKey{action: action, side: side}]
	if !ok {
		return nil, &domain.NoHandlerError{Action: action, Side: side}
	}
	return h, nil
}
