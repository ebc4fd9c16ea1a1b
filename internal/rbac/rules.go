package rbac

// Default policy. Faculty author quizzes and review attempts; students take
// them.
var RolePermissions = map[string][]string{
	"student": {
		"quiz:view",
		"attempt:create",
		"attempt:save",
		"attempt:submit",
		"attempt:view-own",
	},
	"faculty": {
		"quiz:create",
		"quiz:update",
		"quiz:delete",
		"quiz:view",
		"quiz:view-keys",
		"attempt:view-all",
		"users:bulk_upsert",
		"users:list",
	},
	"admin": {
		"*", // everything
	},
}
