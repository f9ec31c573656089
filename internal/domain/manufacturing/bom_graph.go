package manufacturing

// ChildrenFunc devuelve los componentes directos de un artículo.
type ChildrenFunc func(itemID string) ([]string, error)

// CreatesCycle indica si agregar la arista parent -> component cerraría un ciclo en la lista
// de materiales, es decir si parent ya es alcanzable desde component. Recorre en profundidad
// visitando cada artículo una sola vez.
func CreatesCycle(parent, component string, children ChildrenFunc) (bool, error) {
	if parent == component {
		return true, nil
	}
	visited := make(map[string]bool)
	stack := []string{component}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[current] {
			continue
		}
		visited[current] = true
		next, err := children(current)
		if err != nil {
			return false, err
		}
		for _, c := range next {
			if c == parent {
				return true, nil
			}
			if !visited[c] {
				stack = append(stack, c)
			}
		}
	}
	return false, nil
}
