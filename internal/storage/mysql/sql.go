package mysql

// Note: `text` is reserved; keep it quoted everywhere.
const insertDraftSQL = "INSERT INTO review_drafts\n" +
	"  (id, property_id, hotel_name, voice, rating, trip_type, fallback, `text`, metadata, request, created_at)\n" +
	"VALUES\n" +
	"  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

const selectDraftColumns = "id, property_id, hotel_name, `text`, metadata, request, created_at"

const getDraftSQL = "SELECT " + selectDraftColumns + " FROM review_drafts WHERE id = ?"

// Newest first; id breaks ties between drafts created in the same microsecond.
const listDraftsSQL = "SELECT " + selectDraftColumns + `
FROM review_drafts
WHERE property_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?`
