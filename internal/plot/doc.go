// Package plot renders the two images produced per measurement: a scatter of
// method B against method A (least-squares fit, identity line, patient labels)
// and a Bland-Altman plot of the differences against the pairwise means.
// Charts are drawn with go-chart; the statistics box is stamped afterwards
// with the basicfont 7x13 face.
package plot
