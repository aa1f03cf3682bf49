package model

// Metadata describes the exported CDAE: tensor shapes are [1, 3, S, S]
// with S = ImageSize, the model's native spatial resolution.
type Metadata struct {
	InputShape  []int64 `json:"input_shape"`
	OutputShape []int64 `json:"output_shape"`
	ImageSize   int     `json:"image_size"`
}
