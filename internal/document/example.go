// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package document

// ExampleTitle is the title given to documents created with example content
const ExampleTitle = "Bookmark insertion example"

var exampleParagraphs = []string{
	"He heard quiet steps behind him. That didn't bode well. Who could be following him this late at night and in this deadbeat part of town? And at this particular moment, just after he pulled off the big time and was making off with the greenbacks. Was there another crook who'd had the same idea, and was now watching him and waiting for a chance to grab the fruit of his labor?",
	"Or did the steps behind him mean that one of many bloody officers in town was on to him and just waiting to pounce and snap those cuffs on his wrists? He nervously looked all around. Suddenly he saw the alley. Like lightening he darted off to the left and disappeared between the two warehouses almost falling over the trash can lying in the middle of the sidewalk. He tried to nervously tap his way along in the inky darkness and suddenly stiffened: it was a dead-end, he would have to go back the way he had come",
	"The steps got louder and louder, he saw the black outline of a figure coming around the corner. Is this the end of the line? he thought pressing himself back against the wall trying to make himself invisible in the dark, was all that planning and energy wasted? He was dripping with sweat now, cold and wet, he could smell the brilliant fear coming off his clothes. Suddenly next to him, with a barely noticeable squeak, a door swung quietly to and fro in the night's breeze.",
}

// InsertExampleContent appends the three paragraphs of the sample story
func (d *Document) InsertExampleContent() {
	for _, p := range exampleParagraphs {
		d.AppendParagraph(p)
	}
}

// NewExample creates a document holding only the sample story
func NewExample() *Document {
	d := New(ExampleTitle)
	d.InsertExampleContent()
	return d
}
