package supervisor

// TreeKiller terminates a process and every process it spawned. Killing a
// process that already exited must succeed.
type TreeKiller interface {
	KillTree(pid int) error
}
