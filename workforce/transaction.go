package workforce

import "github.com/google/uuid"

// Transaction is an open piece of bookkeeping held for one employee,
// such as a reserved delivery. Firing the employee closes it.
type Transaction struct {
	ID       string
	AgentID  string
	Kind     string
	Amount   int
	OpenedAt uint64
	ClosedAt uint64
	Closed   bool
}

// OpenTransaction opens a transaction for an employee. It fails when id is
// not employed here or already has an open transaction.
func (t *Task) OpenTransaction(id, kind string, amount int) (*Transaction, bool) {
	if _, ok := t.employeeRoles[id]; !ok {
		return nil, false
	}
	if _, open := t.transactions[id]; open {
		return nil, false
	}
	tx := &Transaction{
		ID:       uuid.NewString(),
		AgentID:  id,
		Kind:     kind,
		Amount:   amount,
		OpenedAt: t.env.Clock.Tick(),
	}
	t.transactions[id] = tx
	return tx, true
}

// Transaction returns the open transaction of id.
func (t *Task) Transaction(id string) (*Transaction, bool) {
	tx, ok := t.transactions[id]
	return tx, ok
}

// CloseTransaction closes and returns the open transaction of id.
func (t *Task) CloseTransaction(id string) (*Transaction, bool) {
	tx, ok := t.transactions[id]
	if !ok {
		return nil, false
	}
	delete(t.transactions, id)
	tx.Closed = true
	tx.ClosedAt = t.env.Clock.Tick()
	return tx, true
}
