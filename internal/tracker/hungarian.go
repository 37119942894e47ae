package tracker

import "math"

// forbidden marks a cost-matrix entry that can never be assigned (the
// blob-to-contact distance exceeded D_max). It must stay far below
// math.MaxFloat64/2 so padded/forbidden costs never overflow during the
// potential updates below.
const forbidden = math.MaxFloat64 / 4

// hungarianAssign solves the rectangular assignment problem by padding
// cost to a square matrix and running Kuhn-Munkres with potentials
// (the Jonker-Volgenant augmenting-path variant), adapted from the
// cluster-to-track assignment solver in
// internal/lidar/hungarian.go — same potentials/augmenting-path loop,
// restructured around an explicit augmenting-path step and renamed for
// a blob-to-contact cost matrix rather than a cluster-to-track one.
// Returns assignment[i] = column assigned to row i, or -1 if row i is
// unassigned or its only feasible assignment was forbidden.
func hungarianAssign(cost [][]float64) []int {
	rows := len(cost)
	if rows == 0 {
		return nil
	}
	cols := len(cost[0])
	if cols == 0 {
		return unassignedRow(rows)
	}

	dim := rows
	if cols > dim {
		dim = cols
	}
	square := padSquare(cost, rows, cols, dim)

	colOfRow := solvePotentials(square, dim)

	result := make([]int, rows)
	for i := 0; i < rows; i++ {
		col := colOfRow[i]
		if col < 0 || col >= cols || cost[i][col] >= forbidden {
			result[i] = -1
		} else {
			result[i] = col
		}
	}
	return result
}

func unassignedRow(n int) []int {
	result := make([]int, n)
	for i := range result {
		result[i] = -1
	}
	return result
}

// padSquare embeds an n×m cost matrix into a dim×dim matrix, filling
// the padding with forbidden so excess rows or columns never win an
// augmenting path over a real entry.
func padSquare(cost [][]float64, rows, cols, dim int) [][]float64 {
	square := make([][]float64, dim)
	for i := 0; i < dim; i++ {
		square[i] = make([]float64, dim)
		for j := 0; j < dim; j++ {
			if i < rows && j < cols {
				square[i][j] = cost[i][j]
			} else {
				square[i][j] = forbidden
			}
		}
	}
	return square
}

// solvePotentials runs Kuhn-Munkres with row/column potentials over a
// dim×dim matrix, 1-indexed internally so the augmenting-path
// bookkeeping (assignedRow[0] as the virtual source column) stays
// branch-free. It returns a 0-indexed column-per-row assignment.
func solvePotentials(square [][]float64, dim int) []int {
	const inf = math.MaxFloat64 / 2

	rowPotential := make([]float64, dim+1)
	colPotential := make([]float64, dim+1)
	assignedRow := make([]int, dim+1)
	parentCol := make([]int, dim+1)

	for srcRow := 1; srcRow <= dim; srcRow++ {
		assignedRow[0] = srcRow
		col := 0

		minSlack := make([]float64, dim+1)
		visited := make([]bool, dim+1)
		for j := 0; j <= dim; j++ {
			minSlack[j] = inf
		}

		for {
			visited[col] = true
			curRow := assignedRow[col]
			delta := inf
			nextCol := -1

			for j := 1; j <= dim; j++ {
				if visited[j] {
					continue
				}
				slack := square[curRow-1][j-1] - rowPotential[curRow] - colPotential[j]
				if slack < minSlack[j] {
					minSlack[j] = slack
					parentCol[j] = col
				}
				if minSlack[j] < delta {
					delta = minSlack[j]
					nextCol = j
				}
			}

			if nextCol < 0 {
				break
			}

			for j := 0; j <= dim; j++ {
				if visited[j] {
					rowPotential[assignedRow[j]] += delta
					colPotential[j] -= delta
				} else {
					minSlack[j] -= delta
				}
			}

			col = nextCol
			if assignedRow[col] == 0 {
				break
			}
		}

		for col != 0 {
			assignedRow[col] = assignedRow[parentCol[col]]
			col = parentCol[col]
		}
	}

	colOfRow := unassignedRow(dim)
	for j := 1; j <= dim; j++ {
		if assignedRow[j] > 0 && assignedRow[j] <= dim {
			colOfRow[assignedRow[j]-1] = j - 1
		}
	}
	return colOfRow
}
