package internal

// taskList holds a wire's post-run tasks, called with the new value after a
// re-run produced a different value.
type taskList struct {
	next  int
	tasks map[int]func(any)
	order []int
}

func newTaskList() *taskList {
	return &taskList{tasks: make(map[int]func(any))}
}

func (l *taskList) add(fn func(any)) int {
	l.next++
	l.tasks[l.next] = fn
	l.order = append(l.order, l.next)
	return l.next
}

func (l *taskList) remove(id int) {
	if _, ok := l.tasks[id]; !ok {
		return
	}
	delete(l.tasks, id)

	for i, o := range l.order {
		if o == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// run calls every task with v. A panicking task is reported to onPanic and
// the remaining tasks still run.
func (l *taskList) run(v any, onPanic func(error)) {
	order := make([]int, len(l.order))
	copy(order, l.order)

	for _, id := range order {
		// a task may remove a later one
		if fn, ok := l.tasks[id]; ok {
			if err := callTask(fn, v); err != nil {
				onPanic(err)
			}
		}
	}
}

func callTask(fn func(any), v any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()

	fn(v)
	return nil
}

func (l *taskList) clear() {
	l.tasks = make(map[int]func(any))
	l.order = nil
}
