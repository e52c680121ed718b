package types

// EntityType tags every linkable record collection. The set is closed:
// the link graph, activity log and checklists reference rows only by
// (type, id) and never see collection-specific fields.
type EntityType string

const (
	EntityTypeDisclosure EntityType = "disclosure"
	EntityTypeProject    EntityType = "project"
	EntityTypeAgreement  EntityType = "agreement"
	EntityTypeStartup    EntityType = "startup"
	EntityTypeInventor   EntityType = "inventor"
	EntityTypeTeamMember EntityType = "team_member"
	EntityTypeFiling     EntityType = "filing"
)

var entityTypes = map[EntityType]bool{
	EntityTypeDisclosure: true,
	EntityTypeProject:    true,
	EntityTypeAgreement:  true,
	EntityTypeStartup:    true,
	EntityTypeInventor:   true,
	EntityTypeTeamMember: true,
	EntityTypeFiling:     true,
}

func IsValidEntityType(t EntityType) bool {
	return entityTypes[t]
}
