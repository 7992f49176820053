package entity

// Table tabla plana (cabecera + filas) lista para serializar.
type Table struct {
	Columns []string
	Rows    [][]string
}
