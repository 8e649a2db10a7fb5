package bot

import (
	"sync"
	"testing"
)

func TestUpdateState(t *testing.T) {
	b := &TelegramBot{userStates: map[int64]*UserState{
		7: {TelegramID: 7, CurrentState: StateAllowance},
	}}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.updateState(7, func(s *UserState) { s.Allowance++ })
		}()
	}
	wg.Wait()

	if got := b.userStates[7].Allowance; got != 50 {
		t.Fatalf("Allowance = %d, want 50", got)
	}

	b.updateState(8, func(s *UserState) { s.CurrentState = StateDuration })
	if _, ok := b.userStates[8]; ok {
		t.Fatal("updateState created state for an unknown user")
	}
}
