// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import "sort"

// FindPath returns a shortest chain of languages from source to target,
// both included. Successors are explored in registration order, so among
// chains of equal length the one whose edges were registered first wins.
// A language routes to itself with a single-element chain.
func (r *Registry) FindPath(source, target string) ([]string, error) {
	source, target = canonical(source), canonical(target)
	if source == target {
		if _, ok := r.langs[source]; ok {
			return []string{source}, nil
		}
		return nil, &RouteError{Source: source, Target: target}
	}

	prev := map[string]string{source: ""}
	queue := []string{source}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, next := range r.graph[v] {
			if _, seen := prev[next]; seen {
				continue
			}
			prev[next] = v
			if next == target {
				return walkBack(prev, source, target), nil
			}
			queue = append(queue, next)
		}
	}
	return nil, &RouteError{Source: source, Target: target}
}

func walkBack(prev map[string]string, source, target string) []string {
	var path []string
	for v := target; v != source; v = prev[v] {
		path = append(path, v)
	}
	path = append(path, source)
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// TargetLanguages returns, sorted, every language reachable from lang,
// excluding lang itself.
func (r *Registry) TargetLanguages(lang string) []string {
	lang = canonical(lang)
	seen := map[string]bool{lang: true}
	queue := []string{lang}
	var out []string
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, next := range r.graph[v] {
			if seen[next] {
				continue
			}
			seen[next] = true
			out = append(out, next)
			queue = append(queue, next)
		}
	}
	sort.Strings(out)
	return out
}
