package kot

// UnknownItemName is the placeholder for items whose name cannot be resolved
// through any lookup path. Rendering a placeholder beats dropping the row:
// the kitchen still sees how many items the order carries.
const UnknownItemName = "Unknown Item"

// ResolveItem turns one raw item entry into a display-ready item. The name is
// resolved through an ordered fallback chain, first match wins:
//
//  1. literal name on the item itself (name, then itemName)
//  2. name of a catalog record embedded inline under itemId
//  3. catalog lookup by the itemId / id reference
//  4. equality sweep: any catalog entry whose identifier or name equals one
//     of the item's literal fields (the two upstream producers are not
//     consistent about which field carries what)
//  5. the UnknownItemName placeholder
//
// Quantity and KOT number default to 1 when absent. Pure and total: there is
// no failure path.
func ResolveItem(item RawItem, catalog Catalog) ResolvedItem {
	quantity := item.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	kotNumber := item.KOTNumber
	if kotNumber <= 0 {
		kotNumber = 1
	}
	return ResolvedItem{
		Name:      resolveName(item, catalog),
		Quantity:  quantity,
		KOTNumber: kotNumber,
		Note:      item.Note,
	}
}

func resolveName(item RawItem, catalog Catalog) string {
	if item.Name != "" {
		return item.Name
	}
	if item.ItemName != "" {
		return item.ItemName
	}

	if item.Ref.Inline && item.Ref.Name != "" {
		return item.Ref.Name
	}

	for _, id := range []string{item.Ref.ID, item.ID} {
		if entry, ok := catalog.ByID(id); ok && entry.Name != "" {
			return entry.Name
		}
	}

	if name := resolveBySecondaryEquality(item, catalog); name != "" {
		return name
	}

	return UnknownItemName
}

// resolveBySecondaryEquality scans the catalog for an entry whose identifier
// or name equals any literal the item carries. It catches upstream records
// that put a name where an identifier belongs and vice versa.
func resolveBySecondaryEquality(item RawItem, catalog Catalog) string {
	candidates := []string{item.Name, item.ItemName, item.Ref.ID, item.Ref.Name, item.ID}
	for _, entry := range catalog.Items() {
		if entry.Name == "" {
			continue
		}
		for _, candidate := range candidates {
			if candidate == "" {
				continue
			}
			if entry.ID == candidate || entry.Name == candidate {
				return entry.Name
			}
		}
	}
	return ""
}
