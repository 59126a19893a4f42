/*
Package attribution は学習済み線形モデルの行ごとの要因分析を行う。

線形モデルのスコアは各特徴量の寄与 x(i,j)·w(j) の和なので、寄与の大きい順に
特徴量を並べればその行の予測を押し上げた要因が分かる。

# 寄与度行列

BuildContributions は特徴量行列の各列に係数を掛けた、同じ形の行列を返す。

	x, _ := attribution.NewFeatureMatrix([]string{"age", "bp"},
		mat.NewDense(2, 2, []float64{2, 10, 1, 5}))
	contrib, _ := attribution.BuildContributions(x, attribution.NewCoefficients([]float64{3, -1}))
	// [[6 -10] [3 -5]]

# 上位k要因

TopKFeatures は行ごとに寄与の降順で列名を並べ、先頭k個を返す。同じ寄与を
持つ列は元の列順を保つ。kが係数の数を超える要求は計算前に
TooManyFeaturesRequestedError で拒否される。

	factors, _ := attribution.TopKFeatures(x, coef, 2)
	// [[age bp] [age bp]]

FindTopThreeFactors は旧来の3要因固定のインターフェースで、結果は
TopKFeatures(x, coef, 3).Transpose() と一致する。

# 数値の扱い

寄与にNaNが現れた場合は順位付けせずに NumericalInstabilityError を返す。
±Inf はそのまま比較される。
*/
package attribution
