package canvas

// Groups are implicit: a group is every note carrying the same non-empty
// GroupID. All functions here scan the board linearly.

// GroupNotes tags every note in ids with one fresh tag from newTag, replacing
// any tag they held. Fewer than two existing notes is a no-op. Groups that
// lose all but one member are dissolved. It returns the notes that changed.
func GroupNotes(notes *NoteSet, ids []string, newTag func() string) []Note {
	var members []*Note
	seen := make(map[string]bool)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if n, ok := notes.Get(id); ok {
			members = append(members, n)
		}
	}
	if len(members) < 2 {
		return nil
	}

	tag := newTag()
	previous := make(map[string]bool)
	changed := make([]Note, 0, len(members))
	for _, n := range members {
		if n.GroupID != "" {
			previous[n.GroupID] = true
		}
		n.GroupID = tag
		changed = append(changed, *n)
	}
	return append(changed, dissolveSingletons(notes, previous)...)
}

// UngroupTag clears tag from every note holding it.
func UngroupTag(notes *NoteSet, tag string) []Note {
	if tag == "" {
		return nil
	}
	var changed []Note
	notes.Each(func(n *Note) bool {
		if n.GroupID == tag {
			n.GroupID = ""
			changed = append(changed, *n)
		}
		return true
	})
	return changed
}

// UngroupNotes dissolves every group that any of ids belongs to, including
// members that are not in ids.
func UngroupNotes(notes *NoteSet, ids []string) []Note {
	tags := make(map[string]bool)
	for _, id := range ids {
		if n, ok := notes.Get(id); ok && n.GroupID != "" {
			tags[n.GroupID] = true
		}
	}
	if len(tags) == 0 {
		return nil
	}
	var changed []Note
	notes.Each(func(n *Note) bool {
		if n.GroupID != "" && tags[n.GroupID] {
			n.GroupID = ""
			changed = append(changed, *n)
		}
		return true
	})
	return changed
}

// GroupMembers returns the ids of every note tagged with tag, in paint order.
func GroupMembers(notes *NoteSet, tag string) []string {
	if tag == "" {
		return nil
	}
	var ids []string
	notes.Each(func(n *Note) bool {
		if n.GroupID == tag {
			ids = append(ids, n.ID)
		}
		return true
	})
	return ids
}

// RelatedNotes resolves which notes move with id: its group if it has one,
// else the whole selection if id is selected, else id alone.
func RelatedNotes(notes *NoteSet, id string, selected []string) []string {
	if n, ok := notes.Get(id); ok && n.GroupID != "" {
		return GroupMembers(notes, n.GroupID)
	}
	for _, sel := range selected {
		if sel == id {
			return append([]string(nil), selected...)
		}
	}
	return []string{id}
}

// dissolveSingletons clears each of tags that is now held by exactly one note.
func dissolveSingletons(notes *NoteSet, tags map[string]bool) []Note {
	if len(tags) == 0 {
		return nil
	}
	count := make(map[string]int)
	notes.Each(func(n *Note) bool {
		if tags[n.GroupID] {
			count[n.GroupID]++
		}
		return true
	})
	var changed []Note
	notes.Each(func(n *Note) bool {
		if tags[n.GroupID] && count[n.GroupID] == 1 {
			n.GroupID = ""
			changed = append(changed, *n)
		}
		return true
	})
	return changed
}
