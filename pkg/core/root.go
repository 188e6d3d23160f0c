package core

// MountRoot inflates node and mounts it as the root of a new instance tree
// managed by owner. Returns nil if the node's component is not a valid
// component kind.
func MountRoot(node *Node, owner *Owner) Instance {
	instance := inflate(node, owner)
	if instance == nil {
		return nil
	}
	instance.Mount(nil, nil)
	return instance
}
