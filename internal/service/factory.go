package service

import (
	"devhubtrader.app/forge/internal/queue"
	"devhubtrader.app/forge/internal/store"
)

type Services struct {
	stores       *store.Stores
	txRunner     TxRunner
	orchestrator Orchestrator
	producer     queue.Producer
	tokenCost    int64
}

// NewServices wires services over stores. producer may be nil when the
// process never enqueues generations (the worker, forgectl).
func NewServices(stores *store.Stores, txRunner TxRunner, orchestrator Orchestrator, producer queue.Producer, tokenCost int64) *Services {
	return &Services{
		stores:       stores,
		txRunner:     txRunner,
		orchestrator: orchestrator,
		producer:     producer,
		tokenCost:    tokenCost,
	}
}

func (s *Services) Robots() RobotService {
	return NewRobotService(s.stores.Robots(), s.stores.Versions(), s.txRunner)
}

func (s *Services) Versions() VersionService {
	return NewVersionService(s.stores.Robots(), s.stores.Versions(), s.txRunner)
}

func (s *Services) Ledger() LedgerService {
	return NewLedgerService(s.stores.Ledger())
}

func (s *Services) Generations() GenerationService {
	return NewGenerationService(s.orchestrator, s.stores.GenerationRuns(), s.stores.Ledger(), s.producer, s.tokenCost)
}
