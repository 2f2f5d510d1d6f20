package jolt

import "strings"

// itemFields is the selection set requested for every item result level.
const itemFields = `id type __typename resultValue resultText resultDouble isMarkedNA completionTimestamp ` +
	`resultAssets { id name } resultCompanyFiles { fileURI } peripheral { type } ` +
	`itemTemplate { text type isScoringItemType isRequired } notes { body } correctiveActions { id }`

// subListDepth is how many nested sublist levels a list query expands.
const subListDepth = 3

const locationsQuery = `query GetLocations { company { locations { id name } } }`

var listInstancesQuery = `query GetChecklists($filter: ListInstancesFilter!) { listInstances(filter: $filter) { ` +
	`id displayTimestamp deadlineTimestamp incompleteCount isActive instanceTitle score maxPossibleScore ` +
	`listTemplate { title } itemResults { ` + itemSelection(subListDepth) + ` } } }`

// itemSelection expands itemFields with depth levels of subList children.
func itemSelection(depth int) string {
	if depth == 0 {
		return itemFields
	}
	var b strings.Builder
	b.WriteString(itemFields)
	b.WriteString(" subList { id instanceTitle itemResults { ")
	b.WriteString(itemSelection(depth - 1))
	b.WriteString(" } }")
	return b.String()
}
