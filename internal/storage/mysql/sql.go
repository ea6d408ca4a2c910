package mysql

const insertPartSQL = `
INSERT INTO parts (manufacturer, part_number)
VALUES (?, ?)
`

// prices_found is JSON text: [{"source":"unknown","price":10.5}, ...]
const insertComparisonSQL = `
INSERT INTO comparisons
  (part_id, manufacturer, part_number, our_price, difference, prices_found)
VALUES
  (?, ?, ?, ?, ?, ?)
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Newest first; id breaks ties inside the same second.
const latestComparisonSQL = `
SELECT
  c.id,
  c.part_id,
  c.manufacturer,
  c.part_number,
  c.our_price,
  c.difference,
  c.prices_found,
  c.created_at
FROM comparisons c
WHERE c.manufacturer = ? AND c.part_number = ?
ORDER BY c.created_at DESC, c.id DESC
LIMIT 1
`
